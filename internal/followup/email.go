package followup

import (
	"fmt"

	"inkflowcrm/internal/models"
)

// Content is a ready-to-edit email draft for one follow-up task.
type Content struct {
	Subject string
	Body    string
}

// GenerateContent builds the seed subject and body for a task type. It is
// total: unknown task types get a generic template and blank names get
// neutral placeholders, so content generation can never block task creation.
func GenerateContent(taskType models.TaskType, clientName, artistName, studioName string) Content {
	if clientName == "" {
		clientName = "there"
	}
	if artistName == "" {
		artistName = "Your artist"
	}
	if studioName == "" {
		studioName = "our shop"
	}

	switch taskType {
	case models.TaskDay1:
		return Content{
			Subject: fmt.Sprintf("Aftercare for your new tattoo from %s", studioName),
			Body: fmt.Sprintf(`Hi %s,

Thanks again for coming in yesterday! Here's a quick reminder of your aftercare routine:

- Keep the bandage on for the first few hours, then wash gently with unscented soap.
- Pat dry and apply a thin layer of aftercare ointment 2-3 times a day.
- No swimming, soaking, or direct sun while it heals.

If anything looks off or you have questions, just reply to this email.

%s
%s`, clientName, artistName, studioName),
		}
	case models.TaskDay3:
		return Content{
			Subject: "How's the healing going?",
			Body: fmt.Sprintf(`Hi %s,

Checking in a few days after your session. Some light peeling and itching is completely normal around now - whatever you do, don't scratch or pick!

Keep up the ointment routine and let me know if you have any concerns.

%s
%s`, clientName, artistName, studioName),
		}
	case models.TaskWeek1:
		return Content{
			Subject: "One week in - let's see it!",
			Body: fmt.Sprintf(`Hi %s,

It's been about a week since your tattoo. By now the surface healing should be well underway.

I'd love to see how it's settling in - feel free to send a photo. And if you've been thinking about the next piece, I'm happy to talk ideas whenever you're ready.

%s
%s`, clientName, artistName, studioName),
		}
	case models.TaskBiweekly1:
		return Content{
			Subject: fmt.Sprintf("Thinking about your next piece? - %s", studioName),
			Body: fmt.Sprintf(`Hi %s,

Hope the new ink has healed up beautifully. If you've been sketching out ideas for the next one, now's a great time to get on the books - my schedule fills up fast.

Reply any time and we'll find a slot that works.

%s
%s`, clientName, artistName, studioName),
		}
	case models.TaskBiweekly2:
		return Content{
			Subject: fmt.Sprintf("We'd love to see you again at %s", studioName),
			Body: fmt.Sprintf(`Hi %s,

It's been a little while since your last session. Just wanted to say the door's always open - whether it's a touch-up, a new piece, or you just want to talk ideas.

Hope to see you soon!

%s
%s`, clientName, artistName, studioName),
		}
	default:
		return Content{
			Subject: fmt.Sprintf("A note from %s", studioName),
			Body: fmt.Sprintf(`Hi %s,

Just checking in after your recent tattoo. If there's anything you need, don't hesitate to reach out.

%s
%s`, clientName, artistName, studioName),
		}
	}
}

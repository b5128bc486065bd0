package service

import (
	"fmt"

	"github.com/stadtlabs/konzeptvergabe/internal/model"
)

// NotificationMail renders the pre-built bundle for an outbox row. The
// data map comes from the notification's JSONB payload.
func NotificationMail(t model.NotificationType, data map[string]string) Mail {
	switch t {
	case model.NotificationCandidatureGranted:
		return Mail{
			Subject: "Your candidature has been accepted",
			Plain: fmt.Sprintf("Congratulations! Your candidature %s has been accepted. "+
				"The project group will contact you about the next steps.", data["candidature_id"]),
			HTML: fmt.Sprintf("<p>Congratulations! Your candidature <b>%s</b> has been accepted. "+
				"The project group will contact you about the next steps.</p>", data["candidature_id"]),
		}
	case model.NotificationCandidatureRejected:
		return Mail{
			Subject: "Your candidature has been rejected",
			Plain: fmt.Sprintf("Unfortunately your candidature %s was not selected. "+
				"You can apply for other concept assignments at any time.", data["candidature_id"]),
			HTML: fmt.Sprintf("<p>Unfortunately your candidature <b>%s</b> was not selected. "+
				"You can apply for other concept assignments at any time.</p>", data["candidature_id"]),
		}
	case model.NotificationNewMessage:
		return Mail{
			Subject: "New message on your candidature",
			Plain:   "You have received a new message from the project group. Log in to read it.",
			HTML:    "<p>You have received a new message from the project group. Log in to read it.</p>",
		}
	case model.NotificationPasswordReset:
		return Mail{
			Subject: "Reset your password",
			Plain: fmt.Sprintf("Use the following token to reset your password: %s\n"+
				"The token expires in two hours.", data["token"]),
			HTML: fmt.Sprintf("<p>Use the following token to reset your password: <b>%s</b></p>"+
				"<p>The token expires in two hours.</p>", data["token"]),
		}
	default:
		return Mail{
			Subject: "Notification",
			Plain:   "You have a new notification on the concession platform.",
			HTML:    "<p>You have a new notification on the concession platform.</p>",
		}
	}
}

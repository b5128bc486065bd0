package service

import (
	"strings"
	"testing"

	"github.com/stadtlabs/konzeptvergabe/internal/model"
)

func TestNotificationMailSubjects(t *testing.T) {
	cases := []struct {
		t    model.NotificationType
		want string
	}{
		{model.NotificationCandidatureGranted, "accepted"},
		{model.NotificationCandidatureRejected, "rejected"},
		{model.NotificationNewMessage, "message"},
		{model.NotificationPasswordReset, "password"},
		{"SOMETHING_ELSE", "Notification"},
	}
	for _, tc := range cases {
		mail := NotificationMail(tc.t, map[string]string{})
		if !strings.Contains(strings.ToLower(mail.Subject), strings.ToLower(tc.want)) {
			t.Errorf("%s: subject %q does not mention %q", tc.t, mail.Subject, tc.want)
		}
		if mail.Plain == "" || mail.HTML == "" {
			t.Errorf("%s: empty body", tc.t)
		}
	}
}

func TestPasswordResetMailCarriesToken(t *testing.T) {
	mail := NotificationMail(model.NotificationPasswordReset, map[string]string{"token": "abc123"})
	if !strings.Contains(mail.Plain, "abc123") || !strings.Contains(mail.HTML, "abc123") {
		t.Fatal("reset token missing from mail body")
	}
}

func TestGrantedMailNamesCandidature(t *testing.T) {
	mail := NotificationMail(model.NotificationCandidatureGranted,
		map[string]string{"candidature_id": "c-42"})
	if !strings.Contains(mail.Plain, "c-42") {
		t.Fatal("candidature id missing from mail body")
	}
}

package notifications

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestRenderEveryTemplate(t *testing.T) {
	ids := []TemplateID{Activation, ActivationSuccess, ForgetPassword, ResetPasswordSuccess, DeleteAccount}
	for _, id := range ids {
		for _, locale := range []string{"en", "ar"} {
			html, err := Render(id, locale, Vars{Name: "Sara", Token: "tok", FrontendURL: "https://front"})
			if err != nil {
				t.Fatalf("render %s/%s: %v", id, locale, err)
			}
			if !strings.Contains(html, "Sara") {
				t.Fatalf("render %s/%s: name missing", id, locale)
			}
		}
	}
}

func TestRenderActivationLink(t *testing.T) {
	html, err := Render(Activation, "en", Vars{Name: "Sara", Token: "abc.def", FrontendURL: "https://front"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(html, "https://front/activate/abc.def") {
		t.Fatalf("activation link missing from %s", html)
	}

	ar, err := Render(Activation, "ar", Vars{Name: "Sara", Token: "abc.def", FrontendURL: "https://front"})
	if err != nil {
		t.Fatalf("render ar: %v", err)
	}
	if !strings.Contains(ar, `dir="rtl"`) {
		t.Fatalf("expected arabic template")
	}
}

func TestRenderEscapesName(t *testing.T) {
	html, err := Render(DeleteAccount, "en", Vars{Name: "<script>x</script>"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(html, "<script>") {
		t.Fatalf("name was not escaped: %s", html)
	}
}

func TestRenderUnknownLocaleFallsBackToEnglish(t *testing.T) {
	html, err := Render(ResetPasswordSuccess, "fr", Vars{Name: "Sara"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(html, `lang="en"`) {
		t.Fatalf("expected english fallback")
	}
}

func TestDeliver(t *testing.T) {
	mailer := &RecordingMailer{}
	ctx := context.Background()

	if err := Deliver(ctx, mailer, "", "subject", Activation, "en", Vars{}); err != nil {
		t.Fatalf("deliver without recipient: %v", err)
	}
	if len(mailer.Sent) != 0 {
		t.Fatalf("expected nothing sent without a recipient")
	}

	if err := Deliver(ctx, mailer, "sara@example.com", "Activate", Activation, "en", Vars{Name: "Sara", Token: "t"}); err != nil {
		t.Fatalf("deliver: %v", err)
	}
	last, ok := mailer.Last()
	if !ok || last.To != "sara@example.com" || last.Subject != "Activate" || !strings.Contains(last.HTML, "/activate/t") {
		t.Fatalf("unexpected email %+v", last)
	}

	failing := &RecordingMailer{Err: errors.New("smtp down")}
	if err := Deliver(ctx, failing, "sara@example.com", "Activate", Activation, "en", Vars{}); err == nil {
		t.Fatalf("expected mailer error to propagate")
	}
}

func TestSMTPMailerRejectsBadRecipient(t *testing.T) {
	m := NewSMTPMailer("localhost", 2525, "user", "pass")
	if err := m.Send(context.Background(), Email{To: "not-an-address"}); err == nil {
		t.Fatalf("expected invalid recipient error")
	}
}

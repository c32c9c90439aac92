package handler

import (
	"testing"

	"StaffBot/model"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		text     string
		wantName string
		wantArgs string
	}{
		{text: "/start", wantName: "/start"},
		{text: "  /start  ", wantName: "/start"},
		{text: "/start ref42", wantName: "/start", wantArgs: "ref42"},
		{text: "/start@StaffBot", wantName: "/start"},
		{text: "/start@StaffBot  ref42 x", wantName: "/start", wantArgs: "ref42 x"},
		{text: "/clear@StaffBot", wantName: "/clear"},
		{text: "/help\tme", wantName: "/help", wantArgs: "me"},
		{text: "Anvar Karimov"},
		{text: "+998901234567"},
		{text: ""},
	}

	for _, tt := range tests {
		name, args := parseCommand(tt.text)
		if name != tt.wantName || args != tt.wantArgs {
			t.Errorf("parseCommand(%q) = (%q, %q), want (%q, %q)", tt.text, name, args, tt.wantName, tt.wantArgs)
		}
	}
}

func TestCommandVariantsStartRegistration(t *testing.T) {
	for _, text := range []string{"/start ref42", "/start@StaffBot", "/start@StaffBot ref42"} {
		t.Run(text, func(t *testing.T) {
			f := newFixture(t)
			f.send(7, text)
			if got := f.h.SessionState(7); got != model.StateAwaitingFullName {
				t.Fatalf("state = %s, want awaiting_full_name", got)
			}
			if m := f.msgr.last(t, 7); m.Text != msgAskFullName {
				t.Errorf("reply = %q", m.Text)
			}
		})
	}
}

func TestClearWithBotSuffix(t *testing.T) {
	f := newFixture(t, registered(1))
	openRequest(t, f, 2)

	f.send(adminID, "/clear@StaffBot")
	if snap := f.request.Snapshot(); snap.RequiredCount != 0 || snap.HasDate() {
		t.Fatalf("request not cleared: %+v", snap)
	}
	if m := f.msgr.last(t, adminID); m.Text != msgCleared {
		t.Errorf("reply = %q", m.Text)
	}
}

func TestHelpWithBotSuffix(t *testing.T) {
	f := newFixture(t)
	f.send(1, "/help@StaffBot")
	if m := f.msgr.last(t, 1); m.Text != helpText(DefaultLabels(), false, false) {
		t.Errorf("reply = %q", m.Text)
	}
}

func TestStartWithArgsRestartsNameStep(t *testing.T) {
	f := newFixture(t)
	const user int64 = 7

	f.send(user, "/start")
	f.send(user, "/start again")
	if got := f.h.SessionState(user); got != model.StateAwaitingFullName {
		t.Fatalf("state = %s, want awaiting_full_name", got)
	}
	if m := f.msgr.last(t, user); m.Text != msgAskFullName {
		t.Errorf("reply = %q", m.Text)
	}

	f.send(user, "/name Anvar Karimov")
	if got := f.h.SessionState(user); got != model.StateAwaitingFullName {
		t.Fatalf("command accepted as a name, state = %s", got)
	}
	if m := f.msgr.last(t, user); m.Text != msgFullNameFormat {
		t.Errorf("reply = %q", m.Text)
	}

	f.send(user, "Anvar Karimov")
	f.send(user, "+998901234567")
	w, ok := f.roster.Lookup(user)
	if !ok || w.FirstName != "Anvar" || w.LastName != "Karimov" {
		t.Fatalf("worker = %+v, %v", w, ok)
	}
}

func TestStartWithArgsDuringPhoneStep(t *testing.T) {
	f := newFixture(t)
	f.send(7, "/start")
	f.send(7, "Anvar Karimov")
	f.send(7, "/start@StaffBot ref42")
	if got := f.h.SessionState(7); got != model.StateAwaitingFullName {
		t.Fatalf("state = %s, want awaiting_full_name", got)
	}
}

func TestAdminStartWithArgsMidRequest(t *testing.T) {
	f := newFixture(t)
	f.send(adminID, "Request workers")
	f.send(adminID, "/start@StaffBot")
	if got := f.h.SessionState(adminID); got != model.StateAwaitingDate {
		t.Fatalf("state = %s, want awaiting_date", got)
	}
}

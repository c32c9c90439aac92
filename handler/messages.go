package handler

import (
	"fmt"
	"strings"

	"StaffBot/model"
)

const (
	msgAskFullName       = "Please enter your first and last name (for example, Anvar Karimov):"
	msgFullNameFormat    = "Please send your first and last name in one message (for example, Anvar Karimov)."
	msgAskPhone          = "Please send your phone number so we can reach you:"
	msgPhoneFormat       = "Please send a valid phone number (for example, +998901234567) or use the button below."
	msgOwnContactOnly    = "Please share only your own phone number."
	msgSaveFailed        = "Sorry, we could not save your registration. Please send your phone number again."
	msgAlreadyRegistered = "You are already registered!"
	msgRegistered        = "You are registered."
	msgAdminPanel        = "Admin panel:\nPress \"%s\" to request workers."
	msgDenied            = "You do not have permission to do that!"
	msgAskDate           = "Enter the date (YYYY-MM-DD):"
	msgDateFormat        = "Wrong format. Please enter the date as YYYY-MM-DD."
	msgAskCount          = "Enter the number of workers:"
	msgCountFormat       = "Please enter the number of workers as a number."
	msgFinishPrompt      = "Please finish the current request first. %s"
	msgCleared           = "Lists cleared!"
	msgNotInRoster       = "You are not in the roster! Send /start to register."
	msgAlreadyAttending  = "You are already on the list!"
	msgCapacityReached   = "The required number of workers has been reached, you cannot join."
	msgNoOpenRequest     = "No workers are being requested right now."
	msgNobodyYet         = "Nobody has signed up yet."
	msgUnknown           = "I didn't understand that command. Use /start or /help."
	msgAdminSaveFailed   = "Registration of user %d (%s) could not be saved: %v"
	msgNewWorker         = "New user registered:\nName: %s\nPhone: %s"
	msgWelcome           = "Welcome, %s!\nYour phone number has been saved."
	msgAnnounce          = "%s: %d workers needed! Who is in?"
	msgRequestSent       = "Workers requested! The announcement reached %d of %d users."
	msgAttending         = "You are on the list! (%d of %d)"
	msgRosterFullAdmin   = "The request is filled!\n%s"
)

func welcome(w model.Worker) string {
	return fmt.Sprintf(msgWelcome, w.FullName())
}

func announcement(s model.Snapshot) string {
	return fmt.Sprintf(msgAnnounce, s.DateString(), s.RequiredCount)
}

func newWorkerNotice(w model.Worker) string {
	return fmt.Sprintf(msgNewWorker, w.FullName(), w.PhoneNumber)
}

// rosterText renders a numbered worker list. Phones are included for the
// admin only.
func rosterText(header string, workers []model.Worker, withPhone bool) string {
	var b strings.Builder
	b.WriteString(header)
	for i, w := range workers {
		b.WriteString("\n")
		if withPhone {
			fmt.Fprintf(&b, "%d. %s (%s)", i+1, w.FullName(), w.PhoneNumber)
			continue
		}
		fmt.Fprintf(&b, "%d. %s", i+1, w.FullName())
	}
	return b.String()
}

func rosterHeader(date string, admin bool) string {
	h := "Worker list"
	if date != "" {
		h += " for " + date
	}
	if admin {
		h += " (admin)"
	}
	return h + ":"
}

func helpText(labels Labels, admin, registered bool) string {
	var b strings.Builder
	b.WriteString("Commands:\n/start - register\n/help - show this message")
	if admin {
		b.WriteString("\n/clear - clear the current request and its list")
		fmt.Fprintf(&b, "\n\"%s\" - announce a new request", labels.RequestWorkers)
		fmt.Fprintf(&b, "\n\"%s\" - show who signed up, with phone numbers", labels.WorkerList)
		return b.String()
	}
	if registered {
		fmt.Fprintf(&b, "\n\"%s\" - sign up for the current request", labels.Attend)
		fmt.Fprintf(&b, "\n\"%s\" - show who signed up", labels.WorkerList)
	}
	return b.String()
}

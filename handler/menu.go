package handler

// Menu selects the reply keyboard shown with an outgoing message.
type Menu int

const (
	// MenuKeep leaves whatever keyboard the chat already shows.
	MenuKeep Menu = iota
	// MenuNone removes the keyboard.
	MenuNone
	// MenuContact offers a single "share my phone" button.
	MenuContact
	MenuMember
	MenuAdmin
)

func (m Menu) String() string {
	switch m {
	case MenuKeep:
		return "keep"
	case MenuNone:
		return "none"
	case MenuContact:
		return "contact"
	case MenuMember:
		return "member"
	case MenuAdmin:
		return "admin"
	default:
		return "unknown"
	}
}

// Labels are the button texts. A pressed button arrives as its label.
type Labels struct {
	RequestWorkers string
	WorkerList     string
	Attend         string
	ShareContact   string
}

func DefaultLabels() Labels {
	return Labels{
		RequestWorkers: "Request workers",
		WorkerList:     "Worker list",
		Attend:         "I'm in",
		ShareContact:   "Share my phone number",
	}
}

// WithDefaults fills empty labels from DefaultLabels.
func (l Labels) WithDefaults() Labels {
	d := DefaultLabels()
	if l.RequestWorkers == "" {
		l.RequestWorkers = d.RequestWorkers
	}
	if l.WorkerList == "" {
		l.WorkerList = d.WorkerList
	}
	if l.Attend == "" {
		l.Attend = d.Attend
	}
	if l.ShareContact == "" {
		l.ShareContact = d.ShareContact
	}
	return l
}

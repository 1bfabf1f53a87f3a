package store

// DemoEmails returns the demo mailbox used to populate a fresh workspace.
func DemoEmails() []Email {
	return []Email{
		{Sender: "Sarah Chen", Subject: "Quarterly planning notes",
			Snippet: "Attached are the notes from yesterday's planning session. Please review the action items before Friday."},
		{Sender: "Acme Utilities", Subject: "Your statement is ready",
			Snippet: "Your latest statement for account ending 4417 is now available. The amount due is $84.20."},
		{Sender: "Mark Rivera", Subject: "Lunch on Thursday?",
			Snippet: "A few of us are grabbing lunch at the new ramen place on Thursday. Want to join?"},
		{Sender: "Orbit Cloud", Subject: "Scheduled maintenance window",
			Snippet: "We will perform maintenance on Sunday between 02:00 and 04:00 UTC. Brief interruptions are expected."},
		{Sender: "Lena Park", Subject: "Photos from the trip",
			Snippet: "Finally uploaded the photos from last weekend. The lake shots came out great."},
	}
}

// DemoTodos returns the starter tasks that accompany the demo mailbox.
func DemoTodos() []string {
	return []string{
		"Water the plants",
		"Reply to Sarah about the planning notes",
	}
}

// SeedDemo fills an empty in-memory store with the demo mailbox and starter
// tasks so a fresh workspace has something for the assistant to act on.
func SeedDemo(m *Memory) {
	if len(m.Emails()) > 0 || len(m.Todos()) > 0 {
		return
	}
	for _, e := range DemoEmails() {
		m.AddEmail(e.Sender, e.Subject, e.Snippet)
	}
	for _, content := range DemoTodos() {
		m.AddTodo(content)
	}
}

package actions

import (
	"context"
	"fmt"
	"strings"

	"dashy/internal/interpret"
	"dashy/internal/store"
)

// MailCriterion selects emails by sender and optionally subject.
type MailCriterion struct {
	Sender  string `json:"sender"`
	Subject string `json:"subject"`
}

// MailControlArgs are the arguments for the mail_control action.
type MailControlArgs struct {
	Action string          `json:"action"`
	Emails []MailCriterion `json:"emails"`
}

// ReadEmailsArgs are the arguments for the read_emails action.
type ReadEmailsArgs struct {
	Status string `json:"status"`
}

func registerMailActions(r *Registry, mail store.MailBackend) {
	r.MustRegister(&Action{
		Name:        "mail_control",
		Description: "Marks emails read or deletes them by sender and subject",
		Handle: func(ctx context.Context, raw map[string]any, lang interpret.Language) (Outcome, error) {
			var args MailControlArgs
			if err := decodeArgs(raw, &args); err != nil {
				return Outcome{}, err
			}

			if args.Action == "read_all" {
				for _, e := range mail.Emails() {
					if !e.Read {
						mail.MarkEmailRead(e.ID)
					}
				}
				return Outcome{LogMessage: "Successfully marked all emails as read."}, nil
			}

			if args.Action != "read" && args.Action != "delete" {
				return Outcome{}, fmt.Errorf("%w: mail_control action must be read, delete or read_all", ErrInvalidArgs)
			}
			if len(args.Emails) == 0 {
				return Outcome{}, fmt.Errorf("%w: missing emails array for mail_control", ErrInvalidArgs)
			}

			for _, e := range mail.Emails() {
				if !matchesAny(e, args.Emails) {
					continue
				}
				switch args.Action {
				case "read":
					if !e.Read {
						mail.MarkEmailRead(e.ID)
					}
				case "delete":
					mail.RemoveEmail(e.ID)
				}
			}
			return Outcome{LogMessage: fmt.Sprintf("Successfully performed %q on %d email(s).", args.Action, len(args.Emails))}, nil
		},
	})

	r.MustRegister(&Action{
		Name:        "read_emails",
		Description: "Loads inbox entries and asks the model to summarize them",
		Handle: func(ctx context.Context, raw map[string]any, lang interpret.Language) (Outcome, error) {
			var args ReadEmailsArgs
			if err := decodeArgs(raw, &args); err != nil {
				return Outcome{}, err
			}
			status := args.Status
			if status == "" {
				status = "unread"
			}

			var filtered []store.Email
			for _, e := range mail.Emails() {
				switch status {
				case "all":
					filtered = append(filtered, e)
				case "read":
					if e.Read {
						filtered = append(filtered, e)
					}
				case "unread":
					if !e.Read {
						filtered = append(filtered, e)
					}
				}
			}

			if len(filtered) == 0 {
				var prompt string
				if lang == interpret.LangRussian {
					kind := "непрочитанных"
					if status == "read" {
						kind = "прочитанных"
					}
					prompt = fmt.Sprintf("Скажи пользователю, что у него нет %s писем.", kind)
				} else {
					prompt = fmt.Sprintf("Tell the user there are no %s emails.", status)
				}
				return Outcome{
					LogMessage:     fmt.Sprintf("No %s emails to read.", status),
					FollowUpPrompt: prompt,
				}, nil
			}

			var entries []string
			for _, e := range filtered {
				entries = append(entries, fmt.Sprintf("From %s, subject: %s, content: %s", e.Sender, e.Subject, e.Snippet))
			}
			prompt := fmt.Sprintf(
				"Summarize the following emails for the user in a friendly, conversational way. Be concise. Respond in language %s:\n%s",
				lang, strings.Join(entries, "\n---\n"))
			return Outcome{
				LogMessage:     fmt.Sprintf("Found %d emails to read.", len(filtered)),
				FollowUpPrompt: prompt,
			}, nil
		},
	})
}

// matchesAny reports whether the email satisfies at least one criterion.
// Sender must contain the requested sender; subject, when given, must
// contain the requested subject. Both comparisons are case-insensitive.
func matchesAny(e store.Email, criteria []MailCriterion) bool {
	sender := strings.ToLower(e.Sender)
	subject := strings.ToLower(e.Subject)
	for _, c := range criteria {
		if !strings.Contains(sender, strings.ToLower(c.Sender)) {
			continue
		}
		if c.Subject != "" && !strings.Contains(subject, strings.ToLower(c.Subject)) {
			continue
		}
		return true
	}
	return false
}

package cart

import (
	"mataam/internal/model"

	"github.com/rs/zerolog"
)

// Remediation is the user's choice in the phone-or-address prompt.
type Remediation int

const (
	RemediationDismiss Remediation = iota
	RemediationAddPhone
	RemediationManageAddresses
)

// Notifier carries user-facing feedback out of the reconciler. Narrow
// viewports render these as toasts, wide viewports as dialogs; the reconciler
// does not know or care which.
type Notifier interface {
	Info(msg string)
	Warn(msg string)
	Error(msg string)

	// Confirm asks a yes/no question and blocks until answered.
	Confirm(msg string) bool

	// PhoneOrAddressPrompt shows the two-choice remediation offered when
	// checkout is rejected for a missing phone and default address.
	PhoneOrAddressPrompt() Remediation
}

// LogNotifier writes notifications to a logger and answers every
// confirmation with yes. Used by the CLI and by non-interactive callers.
type LogNotifier struct {
	Logger zerolog.Logger
}

func (n LogNotifier) Info(msg string)  { n.Logger.Info().Msg(msg) }
func (n LogNotifier) Warn(msg string)  { n.Logger.Warn().Msg(msg) }
func (n LogNotifier) Error(msg string) { n.Logger.Error().Msg(msg) }

func (n LogNotifier) Confirm(msg string) bool {
	n.Logger.Info().Str("confirm", msg).Msg("auto-confirmed")
	return true
}

func (n LogNotifier) PhoneOrAddressPrompt() Remediation {
	n.Logger.Warn().Msg(serverMessages[model.ErrCodeMissingPhoneOrAddress])
	return RemediationDismiss
}

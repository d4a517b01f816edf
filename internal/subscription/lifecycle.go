package subscription

import "time"

// Member statuses. GUEST has made no plan commitment, PENDING has a claim
// awaiting review, ACTIVE is validated and time-boxed, BANNED was revoked
// by an admin. None is terminal: an admin can re-validate a BANNED member
// and a new claim moves any status back to PENDING.
const (
	StatusGuest   = "GUEST"
	StatusPending = "PENDING"
	StatusActive  = "ACTIVE"
	StatusBanned  = "BANNED"
)

const (
	NoticeInfo    = "INFO"
	NoticeWarning = "WARNING"
	NoticeSuccess = "SUCCESS"
)

// ActivationPeriod is fixed regardless of tier; re-validating resets the
// window from "now".
const ActivationPeriod = 30 * 24 * time.Hour

// expiryWindow gates the reminder button in the console. The reminder
// operation itself never checks dates.
const expiryWindow = 3 * 24 * time.Hour

// DefaultPlan is assigned when an admin validates a member who never
// picked a tier.
const DefaultPlan = "PREMIUM"

type Notice struct {
	Title   string
	Message string
	Type    string
}

// ActivationWindow computes the subscription window stamped by Validate.
func ActivationWindow(now time.Time) (start, end time.Time) {
	return now, now.Add(ActivationPeriod)
}

func ActivationNotice() Notice {
	return Notice{
		Title:   "Abonnement Activé ✅",
		Message: "Votre abonnement est maintenant actif pour 30 jours. Profitez de VTV !",
		Type:    NoticeSuccess,
	}
}

func DeactivationNotice() Notice {
	return Notice{
		Title:   "Abonnement Suspendu 🛑",
		Message: "L'administrateur a suspendu votre accès. Contactez le support.",
		Type:    NoticeWarning,
	}
}

func ExpiryReminderNotice() Notice {
	return Notice{
		Title:   "Expiration Imminente ⏳",
		Message: "Votre abonnement expire dans moins de 3 jours. Pensez à renouveler !",
		Type:    NoticeWarning,
	}
}

// IsExpiringSoon reports whether end falls within the warning window:
// strictly in the future and at most three days away. A past-due or unset
// end date is not flagged.
func IsExpiringSoon(end *time.Time, now time.Time) bool {
	if end == nil {
		return false
	}
	diff := end.Sub(now)
	return diff > 0 && diff <= expiryWindow
}

package domain

// Action is the affordance offered alongside a failure notice.
type Action string

const (
	ActionNone      Action = "none"
	ActionRetry     Action = "retry"
	ActionUpgrade   Action = "upgrade"
	ActionFreeSpace Action = "free_space"
	ActionFixInput  Action = "fix_input"
	ActionSignIn    Action = "sign_in"
)

// Notice is a transient, user-facing notification derived from an error.
type Notice struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
	Action  Action    `json:"action"`
}

// DefaultMessage returns the user-facing message for a failure kind.
func DefaultMessage(kind ErrorKind) string {
	switch kind {
	case KindCancelled:
		return "Request cancelled"
	case KindNetwork:
		return "Could not reach the generation service. Check your connection and try again."
	case KindQuota:
		return "You have reached the limit of your current plan. Upgrade to continue."
	case KindValidation:
		return "Some required fields are missing or invalid."
	case KindStorage:
		return "Could not save: storage is full or unavailable. Free up space and try again."
	case KindNotFound:
		return "The requested item no longer exists."
	case KindAuth:
		return "Your session has expired. Please sign in again."
	default:
		return "Something went wrong while generating. Please try again."
	}
}

func actionFor(kind ErrorKind) Action {
	switch kind {
	case KindNetwork, KindBackend:
		return ActionRetry
	case KindQuota:
		return ActionUpgrade
	case KindStorage:
		return ActionFreeSpace
	case KindValidation:
		return ActionFixInput
	case KindAuth:
		return ActionSignIn
	default:
		return ActionNone
	}
}

// NoticeFor converts err into a notification. Cancellation is filtered out
// and yields nil, as does a nil error.
func NoticeFor(err error) *Notice {
	kind := Classify(err)
	if kind == KindNone || kind == KindCancelled {
		return nil
	}

	message := DefaultMessage(kind)
	// Validation messages describe the user's own input and are safe to show.
	if kind == KindValidation {
		if genErr, ok := err.(*GenerationError); ok && genErr.Message != "" {
			message = genErr.Message
		} else if vErr, ok := err.(*ValidationError); ok {
			message = vErr.Message
		}
	}

	return &Notice{
		Kind:    kind,
		Message: message,
		Action:  actionFor(kind),
	}
}

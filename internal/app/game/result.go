package game

const (
	CodeOK               = "ok"
	CodeRejected         = "rejected"
	CodeNotAuthenticated = "not_authenticated"
	CodeInternal         = "internal_error"
)

const (
	MsgLogin    = "Please log in to play."
	MsgInternal = "Something went wrong. Please try again."
	SaveWarning = "progress could not be saved"
)

type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

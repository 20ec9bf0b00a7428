package constants

const (
	// ContextKeyUserID holds the authenticated user's id.
	ContextKeyUserID = "user_id"
	// ContextKeyUser holds the authenticated *models.User.
	ContextKeyUser = "user"
	// ContextKeyRequestID holds the request correlation id.
	ContextKeyRequestID = "request_id"

	HeaderRequestID = "X-Request-ID"

	MinPasswordLength = 6

	MinPageSize     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
	// MaxPage keeps (page-1)*limit far from int overflow.
	MaxPage = 1_000_000

	MaxAIGeneratedTasks = 20
)

package constvars

type ContextKey string

const (
	ResourceAppointments = "appointments"
)

const (
	CONTEXT_REQUEST_ID_KEY           ContextKey = "request_id"
	CONTEXT_IS_CLIENT_REQUEST_ID_KEY ContextKey = "is_client_request_id"
	CONTEXT_ACTOR_KEY                ContextKey = "actor"
)

const (
	REQUEST_ID_PREFIX = "CLNC_SVC_"
)

// Roles carried in the access token.
const (
	RolePatient = "user"
	RoleDoctor  = "doctor"
	RoleAdmin   = "admin"
	RoleSystem  = "system"
)

const (
	DateLayout     = "2006-01-02"
	SlotTimeLayout = "15:04"
)

const (
	AppEnvProduction  = "production"
	AppEnvDevelopment = "development"
)

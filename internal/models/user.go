package models

// Role gates which circles and members a user can see.
type Role string

const (
	// RoleUser is an end-user: sees circles they participate in.
	RoleUser Role = "user"
	// RoleCircleAdmin runs circles: sees circles they own.
	RoleCircleAdmin Role = "circle_admin"
	// RoleSystemAdmin sees everything.
	RoleSystemAdmin Role = "system_admin"
)

// User is a registered account: a person profile independent of any specific
// circle. Circle seats reference users by ID only.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string `json:"id"`

	// Name is the display name.
	Name string `json:"name"`

	// Email is the login identifier (unique).
	Email string `json:"email"`

	// PasswordHash is the bcrypt hash of the password. Never serialized.
	PasswordHash string `json:"-"`

	Role Role `json:"role"`

	// Phone is an optional contact number.
	Phone string `json:"phone,omitempty"`

	// RiskScore and CreditScore are advisory ratings maintained by circle
	// admins; the core only stores and surfaces them.
	RiskScore   int `json:"riskScore"`
	CreditScore int `json:"creditScore"`

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64 `json:"createdAt"`
}

package api

// =============================================================================
// Request Types
// =============================================================================

// BuilderRequest is the body of POST /api/builder. Id lists may be absent or
// empty; both mean no selection in that category. Note is accepted for
// forward compatibility but not persisted.
type BuilderRequest struct {
	Name        *string  `json:"name"`
	BreadID     *int     `json:"breadId"`
	Toasted     *bool    `json:"toasted"`
	CheeseIDs   []int    `json:"cheeseIds"`
	DressingIDs []int    `json:"dressingIds"`
	MeatIDs     []int    `json:"meatIds"`
	ToppingIDs  []int    `json:"toppingIds"`
	Price       *float64 `json:"price"`
	Note        *string  `json:"note"`
}

// UpdateSandwichRequest is the partial patch body of PUT /api/sandwiches/{id}.
// Composition lists are pointers so an absent list and an explicit empty list
// are distinguishable; supplying any composition field replaces the whole
// encoded composition, it is not merged with what was stored before. An
// explicit Description wins over re-encoding.
type UpdateSandwichRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	BreadID     *int     `json:"breadId"`
	Toasted     *bool    `json:"toasted"`
	CheeseIDs   *[]int   `json:"cheeseIds"`
	DressingIDs *[]int   `json:"dressingIds"`
	MeatIDs     *[]int   `json:"meatIds"`
	ToppingIDs  *[]int   `json:"toppingIds"`
}

// HasComposition reports whether any composition field is present.
func (r UpdateSandwichRequest) HasComposition() bool {
	return r.BreadID != nil || r.Toasted != nil ||
		r.CheeseIDs != nil || r.DressingIDs != nil ||
		r.MeatIDs != nil || r.ToppingIDs != nil
}

// RegisterRequest is the body of POST /api/auth/register.
type RegisterRequest struct {
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

// MFAVerifyRequest is the body of POST /api/auth/mfa/verify.
type MFAVerifyRequest struct {
	MFAToken string `json:"mfaToken"`
	Code     string `json:"code"`
}

// =============================================================================
// Response Types
// =============================================================================

// OptionResponse is a single catalog entry of GET /api/options/{category}.
type OptionResponse struct {
	ID    int    `json:"id"`
	Label string `json:"label"`
}

// CompositionResponse is the best-effort decoded selection attached to a
// single-order read. Ids are a hint for editing UIs, not a guarantee.
type CompositionResponse struct {
	BreadID     *int  `json:"breadId"`
	Toasted     bool  `json:"toasted"`
	CheeseIDs   []int `json:"cheeseIds"`
	DressingIDs []int `json:"dressingIds"`
	MeatIDs     []int `json:"meatIds"`
	ToppingIDs  []int `json:"toppingIds"`
}

// ErrorResponse is the generic error body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// FieldErrorsResponse maps request fields to validation messages.
type FieldErrorsResponse struct {
	Errors map[string]string `json:"errors"`
}

// LoginResponse carries either a session token or an MFA challenge.
type LoginResponse struct {
	Token       string `json:"token,omitempty"`
	RequiresMFA bool   `json:"requiresMfa,omitempty"`
	MFAToken    string `json:"mfaToken,omitempty"`
}

// MFAEnrollResponse returns the freshly generated TOTP secret so the client
// can show it once for authenticator setup. It is never returned again.
type MFAEnrollResponse struct {
	Secret string `json:"secret"`
}

// RegisterResponse acknowledges a successful registration.
type RegisterResponse struct {
	Success bool `json:"success"`
}

// ExistsResponse is the body of GET /api/auth/exists.
type ExistsResponse struct {
	Exists bool `json:"exists"`
}

// BackfillResponse reports how many orders had a missing price set to zero.
type BackfillResponse struct {
	Updated int64 `json:"updated"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

// ReadyResponse is the body of GET /ready.
type ReadyResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

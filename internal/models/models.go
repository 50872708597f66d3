// Package models defines the domain entities and data transfer objects for
// The Reporter. It includes database models mapped to PostgreSQL tables,
// request DTOs for user input, and the JSON response envelope shared by all
// endpoints.
package models

import "time"

// ============================================================================
// Enumerations
// ============================================================================

// ShiftPeriod is one of the three work periods in a day.
type ShiftPeriod string

// Shift period values, as stored and as sent by the client.
const (
	ShiftFirst  ShiftPeriod = "1st"
	ShiftSecond ShiftPeriod = "2nd"
	ShiftThird  ShiftPeriod = "3rd"
)

// Valid reports whether p is one of the three known shift periods.
func (p ShiftPeriod) Valid() bool {
	switch p {
	case ShiftFirst, ShiftSecond, ShiftThird:
		return true
	}
	return false
}

// Section is the department tag shared by users, shifts and reports.
type Section string

// Section values. Only CCS is wired to report submission; the others exist
// on the dashboard but have no backend flow yet.
const (
	SectionProduction Section = "production"
	SectionQuality    Section = "quality"
	SectionCCS        Section = "CCS"
	SectionCRM        Section = "CRM"
	SectionBAF        Section = "BAF"
)

// Valid reports whether s is a known section.
func (s Section) Valid() bool {
	switch s {
	case SectionProduction, SectionQuality, SectionCCS, SectionCRM, SectionBAF:
		return true
	}
	return false
}

// ============================================================================
// Domain Models (Database Entities)
// ============================================================================

// User represents an account created through registration.
//
// Database Table: users
// Security Note: PasswordHash is never serialized; every read path returns
// the user with the hash stripped.
type User struct {
	ID           int        `db:"id" json:"id"`
	Name         string     `db:"name" json:"name"`
	FirstName    *string    `db:"first_name" json:"firstName,omitempty"`
	LastName     *string    `db:"last_name" json:"lastName,omitempty"`
	Email        string     `db:"email" json:"email"`
	PasswordHash string     `db:"password_hash" json:"-"`
	PhoneNumber  *string    `db:"phone_number" json:"phoneNumber,omitempty"`
	IsVerified   bool       `db:"is_verified" json:"isVerified"`
	Section      *Section   `db:"section" json:"section,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"createdDate"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updatedDate"`
	DeletedAt    *time.Time `db:"deleted_at" json:"deletedDate,omitempty"` // soft delete, unused by logic
}

// Sanitized returns a copy of the user safe for API responses.
// The JSON tag on PasswordHash already hides it from marshalling; this
// clears the field as well so sanitized copies can never leak through
// logging or later struct reuse.
func (u User) Sanitized() User {
	u.PasswordHash = ""
	return u
}

// Shift represents one labeled work period opened by a user.
// Shifts are immutable once created.
//
// Database Table: shifts
type Shift struct {
	ID        int         `db:"id" json:"id"`
	Shift     ShiftPeriod `db:"shift" json:"shift"`
	Section   Section     `db:"section" json:"section"`
	UserID    int         `db:"user_id" json:"userId"`
	User      *User       `db:"-" json:"user,omitempty"` // populated by joined reads
	CreatedAt time.Time   `db:"created_at" json:"createdDate"`
	UpdatedAt time.Time   `db:"updated_at" json:"updatedDate"`
}

// CCSMetrics holds the 17 operational counters of a report.
// JSON names match the client payload exactly (mixed snake/camel case is
// inherited from the wire format the SPA already sends).
type CCSMetrics struct {
	BafIn           int `db:"baf_in" json:"baf_in"`
	BafOut          int `db:"baf_out" json:"baf_out"`
	CrmIn           int `db:"crm_in" json:"crm_in"`
	CrmOut          int `db:"crm_out" json:"crm_out"`
	ShippedOut      int `db:"shipped_out" json:"shipped_out"`
	TuggerIn        int `db:"tugger_in" json:"tugger_in"`
	TuggerOff       int `db:"tugger_off" json:"tugger_off"`
	TotalTrucksIn   int `db:"total_trucks_in" json:"totalTrucksIn"`
	TotalTrucksOut  int `db:"total_trucks_out" json:"totalTrucksOut"`
	TotalMovements  int `db:"total_movements" json:"totalMovements"`
	TotalTrucks     int `db:"total_trucks" json:"totalTrucks"`
	Hook            int `db:"hook" json:"hook"`
	DownTime        int `db:"down_time" json:"downTime"`
	MovedOfShipping int `db:"moved_of_shipping" json:"movedOfShipping"`
	SlitterOn       int `db:"slitter_on" json:"slitter_on"`
	SlitterOff      int `db:"slitter_off" json:"slitter_off"`
	CoilsHatted     int `db:"coils_hatted" json:"coils_hatted"`
}

// MetricFieldNames lists the 17 metric JSON names in their canonical order.
// Used by validation, the export writer, and the client form check.
var MetricFieldNames = []string{
	"baf_in", "baf_out", "crm_in", "crm_out", "shipped_out",
	"tugger_in", "tugger_off", "totalTrucksIn", "totalTrucksOut",
	"totalMovements", "totalTrucks", "hook", "downTime",
	"movedOfShipping", "slitter_on", "slitter_off", "coils_hatted",
}

// Values returns the metric values in MetricFieldNames order.
func (m CCSMetrics) Values() []int {
	return []int{
		m.BafIn, m.BafOut, m.CrmIn, m.CrmOut, m.ShippedOut,
		m.TuggerIn, m.TuggerOff, m.TotalTrucksIn, m.TotalTrucksOut,
		m.TotalMovements, m.TotalTrucks, m.Hook, m.DownTime,
		m.MovedOfShipping, m.SlitterOn, m.SlitterOff, m.CoilsHatted,
	}
}

// CCSReport represents one set of operational counters recorded against a
// shift. Design intent is one report per shift, but the client flow creates
// a zero-initialized row at shift creation and a separate filled row on
// submission, so the table carries no uniqueness constraint on shift_id.
//
// Database Table: ccs_reports
type CCSReport struct {
	ID      int     `db:"id" json:"id"`
	UserID  int     `db:"user_id" json:"userId"`
	ShiftID int     `db:"shift_id" json:"shiftId"`
	Section Section `db:"section" json:"section"`
	CCSMetrics
	User      *User     `db:"-" json:"user,omitempty"`
	Shift     *Shift    `db:"-" json:"shift,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"createdDate"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedDate"`
}

// ============================================================================
// Request DTOs
// ============================================================================

// RegisterRequest is the POST /auth/register payload.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the POST /auth/login payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CreateUserRequest is the POST /users payload.
type CreateUserRequest struct {
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	Password string   `json:"password"`
	Phone    *string  `json:"phone,omitempty"`
	Section  *Section `json:"section,omitempty"`
}

// UpdateUserRequest is the PATCH /users/:id payload. All fields optional.
// A password sent here is ignored: profile updates never change credentials.
type UpdateUserRequest struct {
	Name     *string  `json:"name,omitempty"`
	Email    *string  `json:"email,omitempty"`
	Password *string  `json:"password,omitempty"`
	Phone    *string  `json:"phone,omitempty"`
	Section  *Section `json:"section,omitempty"`
}

// CreateShiftRequest is the POST /shifts payload.
type CreateShiftRequest struct {
	Shift   ShiftPeriod `json:"shift"`
	Section Section     `json:"section"`
	UserID  int         `json:"userId"`
}

// CreateCCSRequest is the POST /ccs payload: the filled report the client
// submits after opening a shift.
type CreateCCSRequest struct {
	Section Section `json:"section"`
	ShiftID int     `json:"shiftId"`
	UserID  int     `json:"userId"`
	CCSMetrics
}

// ============================================================================
// Response Envelope
// ============================================================================

// Envelope is the JSON wrapper the original controllers return:
// {statusCode, data} on success, {statusCode, message} on failure.
type Envelope struct {
	StatusCode int         `json:"statusCode"`
	Message    string      `json:"message,omitempty"`
	Data       interface{} `json:"data,omitempty"`
}

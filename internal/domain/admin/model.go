package admin

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ehr/riskdash/internal/domain/patient"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrInvalidUser    = errors.New("invalid user")
	ErrDuplicateEmail = errors.New("email already in use")
)

type Role string

const (
	RoleAdmin     Role = "Admin"
	RolePhysician Role = "Physician"
	RoleNurse     Role = "Nurse"
	RoleViewer    Role = "Viewer"
)

var validRoles = map[Role]bool{
	RoleAdmin:     true,
	RolePhysician: true,
	RoleNurse:     true,
	RoleViewer:    true,
}

type UserStatus string

const (
	UserActive   UserStatus = "Active"
	UserInactive UserStatus = "Inactive"
)

// User is a member of staff with access to the dashboard.
type User struct {
	ID        uuid.UUID     `json:"id"`
	Name      string        `json:"name"`
	Email     string        `json:"email"`
	Role      Role          `json:"role"`
	Status    UserStatus    `json:"status"`
	LastLogin *patient.Date `json:"lastLogin,omitempty"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// Validate checks the fields a caller may set.
func (u *User) Validate() error {
	if strings.TrimSpace(u.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidUser)
	}
	if _, err := mail.ParseAddress(u.Email); err != nil {
		return fmt.Errorf("%w: invalid email %q", ErrInvalidUser, u.Email)
	}
	if !validRoles[u.Role] {
		return fmt.Errorf("%w: invalid role %q", ErrInvalidUser, u.Role)
	}
	switch u.Status {
	case UserActive, UserInactive:
	default:
		return fmt.Errorf("%w: invalid status %q", ErrInvalidUser, u.Status)
	}
	return nil
}

func seedUsers() []*User {
	mk := func(name, email string, role Role, status UserStatus, y int, m time.Month, d int) *User {
		login := patient.NewDate(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
		return &User{Name: name, Email: email, Role: role, Status: status, LastLogin: &login}
	}
	return []*User{
		mk("Dr. Sarah Johnson", "sarah.johnson@hospital.com", RoleAdmin, UserActive, 2024, time.January, 15),
		mk("Dr. Michael Chen", "michael.chen@hospital.com", RolePhysician, UserActive, 2024, time.January, 14),
		mk("Nurse Emily Davis", "emily.davis@hospital.com", RoleNurse, UserInactive, 2024, time.January, 10),
		mk("Dr. Robert Wilson", "robert.wilson@hospital.com", RolePhysician, UserActive, 2024, time.January, 15),
	}
}

// -- Settings --

var (
	timezones       = []string{"UTC-8", "UTC-5", "UTC+0"}
	languages       = []string{"English", "Spanish", "French"}
	sessionTimeouts = []int{15, 30, 60}
)

type GeneralSettings struct {
	FacilityName string `json:"facilityName"`
	Timezone     string `json:"timezone"`
	Language     string `json:"language"`
}

// ModelSettings exposes the tier cutoffs. They are fixed by the patient
// package and only AutoUpdate can be changed.
type ModelSettings struct {
	HighRiskThreshold   int  `json:"highRiskThreshold"`
	MediumRiskThreshold int  `json:"mediumRiskThreshold"`
	CriticalThreshold   int  `json:"criticalThreshold"`
	AutoUpdate          bool `json:"autoUpdate"`
}

type SecuritySettings struct {
	TwoFactorAuth         bool `json:"twoFactorAuth"`
	SessionTimeoutMinutes int  `json:"sessionTimeoutMinutes"`
	AuditLoginAttempts    bool `json:"auditLoginAttempts"`
	AuditFailedLogins     bool `json:"auditFailedLogins"`
	AuditDataExports      bool `json:"auditDataExports"`
}

type NotificationSettings struct {
	HighRiskAlerts     bool `json:"highRiskAlerts"`
	SystemUpdates      bool `json:"systemUpdates"`
	DataExportComplete bool `json:"dataExportComplete"`
}

type Settings struct {
	General       GeneralSettings      `json:"general"`
	Model         ModelSettings        `json:"model"`
	Security      SecuritySettings     `json:"security"`
	Notifications NotificationSettings `json:"notifications"`
}

func DefaultSettings() Settings {
	return Settings{
		General: GeneralSettings{
			FacilityName: "City General Hospital",
			Timezone:     "UTC-8",
			Language:     "English",
		},
		Model: modelSettings(true),
		Security: SecuritySettings{
			TwoFactorAuth:         true,
			SessionTimeoutMinutes: 30,
			AuditLoginAttempts:    true,
			AuditFailedLogins:     true,
			AuditDataExports:      true,
		},
		Notifications: NotificationSettings{
			HighRiskAlerts:     true,
			SystemUpdates:      true,
			DataExportComplete: false,
		},
	}
}

func modelSettings(autoUpdate bool) ModelSettings {
	return ModelSettings{
		HighRiskThreshold:   patient.HighRiskThreshold,
		MediumRiskThreshold: patient.MediumRiskThreshold,
		CriticalThreshold:   patient.CriticalThreshold,
		AutoUpdate:          autoUpdate,
	}
}

func (s *Settings) Validate() error {
	if strings.TrimSpace(s.General.FacilityName) == "" {
		return fmt.Errorf("facility name is required")
	}
	if !contains(timezones, s.General.Timezone) {
		return fmt.Errorf("unsupported timezone %q", s.General.Timezone)
	}
	if !contains(languages, s.General.Language) {
		return fmt.Errorf("unsupported language %q", s.General.Language)
	}
	if !contains(sessionTimeouts, s.Security.SessionTimeoutMinutes) {
		return fmt.Errorf("unsupported session timeout %d minutes", s.Security.SessionTimeoutMinutes)
	}
	return nil
}

func contains[T comparable](values []T, v T) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}

// DataOverview describes the data currently served by the dashboard.
type DataOverview struct {
	PatientRecords  int        `json:"patientRecords"`
	SnapshotID      *uuid.UUID `json:"snapshotId,omitempty"`
	Seed            int64      `json:"seed,omitempty"`
	GeneratedAt     *time.Time `json:"generatedAt,omitempty"`
	StoredSnapshots int        `json:"storedSnapshots"`
}

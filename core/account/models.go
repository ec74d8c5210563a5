package account

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/sekolahku/pembiasaan/core"
)

// Roles
const (
	RoleAdmin   = "admin"
	RoleTeacher = "teacher"
)

var AllRoles = []string{RoleAdmin, RoleTeacher}

type Account struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Username     string    `json:"username"`
	Email        string    `json:"email,omitempty"`
	Role         string    `json:"role"`
	StaffNumber  string    `json:"nip,omitempty"`   // NIP
	ClassLabel   string    `json:"kelas,omitempty"` // homeroom, teachers only
	PasswordHash []byte    `json:"-"`
	CreatedAt    time.Time `json:"created_at"` // UTC
	UpdatedAt    time.Time `json:"updated_at"` // UTC
}

func (a *Account) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	a.PasswordHash = hash
	return nil
}

func (a *Account) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(a.PasswordHash, []byte(pwd))
}

func (a *Account) IsAdmin() bool   { return a.Role == RoleAdmin }
func (a *Account) IsTeacher() bool { return a.Role == RoleTeacher }

// NewAccount contains information needed to create a new Account.
type NewAccount struct {
	Name        string `json:"name" validate:"required"`
	Username    string `json:"username" validate:"required,alphanum_"`
	Password    string `json:"password" validate:"required"`
	Role        string `json:"role" validate:"required,oneof=admin teacher"`
	Email       string `json:"email" validate:"omitempty,email"`
	StaffNumber string `json:"nip"`
	ClassLabel  string `json:"kelas"`
}

func (na *NewAccount) Validate(validate *validator.Validate, svc *Service) error {
	na.Name = core.CleanString(na.Name)
	na.Username = core.CleanString(na.Username, true /* lower */)
	na.Email = core.CleanString(na.Email, true /* lower */)

	if err := validate.Struct(na); err != nil {
		return err
	}
	return svc.checkUniqueness(na.Username)
}

// UpdateAccount defines what information may be provided to modify an existing Account.
// Blank fields keep their current value.
type UpdateAccount struct {
	Name        string `json:"name"`
	Username    string `json:"username" validate:"omitempty,alphanum_"`
	Password    string `json:"password"`
	Email       string `json:"email" validate:"omitempty,email"`
	StaffNumber string `json:"nip"`
	ClassLabel  string `json:"kelas"`
}

func (ua *UpdateAccount) Validate(validate *validator.Validate, orig Account, svc *Service) error {
	if name := core.CleanString(ua.Name); name != "" {
		ua.Name = name
	} else {
		ua.Name = orig.Name
	}
	if uname := core.CleanString(ua.Username, true /* lower */); uname != "" {
		ua.Username = uname
	} else {
		ua.Username = orig.Username
	}
	ua.Email = core.CleanString(ua.Email, true /* lower */)

	if err := validate.Struct(ua); err != nil {
		return err
	}
	return svc.checkUniqueness(ua.Username, orig)
}

// ImportRow is one row of a teacher bulk import.
// Only Name is mandatory; a blank Username is derived from the name and a
// blank Password falls back to the configured default.
type ImportRow struct {
	Name        string
	Username    string
	Password    string
	StaffNumber string
	ClassLabel  string
}

// ImportResult reports the partial-success outcome of a bulk import.
type ImportResult struct {
	Created int `json:"created"`
	Skipped int `json:"skipped"`
	Invalid int `json:"invalid"`
}

// teacher import sheet headers; Indonesian aliases come from the exported templates
var importHeaderAliases = map[string]string{
	"name":        "name",
	"nama":        "name",
	"username":    "username",
	"password":    "password",
	"staffnumber": "nip",
	"nip":         "nip",
	"classlabel":  "kelas",
	"kelas":       "kelas",
}

// RowsFromTable maps header-keyed tabular data (first row = headers) to ImportRows.
func RowsFromTable(table [][]string) []ImportRow {
	if len(table) < 2 {
		return nil
	}
	cols := make(map[string]int, len(table[0]))
	for i, h := range table[0] {
		if key, ok := importHeaderAliases[core.CleanString(h, true /* lower */)]; ok {
			cols[key] = i
		}
	}

	cell := func(row []string, key string) string {
		if i, ok := cols[key]; ok && i < len(row) {
			return core.CleanString(row[i])
		}
		return ""
	}

	rows := make([]ImportRow, 0, len(table)-1)
	for _, r := range table[1:] {
		rows = append(rows, ImportRow{
			Name:        cell(r, "name"),
			Username:    cell(r, "username"),
			Password:    cell(r, "password"),
			StaffNumber: cell(r, "nip"),
			ClassLabel:  cell(r, "kelas"),
		})
	}
	return rows
}

// DeriveUsername builds a username from a display name: lower-cased, spaces stripped.
func DeriveUsername(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), ""))
}

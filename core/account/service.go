package account

import (
	"errors"
	"time"

	"github.com/sekolahku/pembiasaan/core"
)

var (
	// errors
	ErrNotFound       = errors.New("account not found")
	ErrUsernameExists = errors.New("an account with this username already exists")
	ErrNotDeletable   = errors.New("admin accounts cannot be deleted")
)

type (
	Repository interface {
		CheckUsernameUniqueness(username string, excluded ...Account) error
		CreateAccount(acct Account) (Account, error)
		QueryAllAccounts() ([]Account, error)
		QueryAccountsByRole(role string) ([]Account, error)
		GetAccountByID(id string) (Account, error)
		GetAccountByUsername(username string) (Account, error)
		UpdateAccount(acct Account) (Account, error)
		DeleteAccountsByID(ids ...string) error
	}

	// Roster removes every Student owned by the given teachers, cascading to
	// their habit records. Implemented by student.Service.
	Roster interface {
		DeleteByTeachers(teacherIDs ...string) error
	}

	Service struct {
		repo   Repository
		roster Roster
		conf   *core.Config
	}
)

func NewService(repo Repository, roster Roster, conf *core.Config) *Service {
	return &Service{repo: repo, roster: roster, conf: conf}
}

func (svc *Service) checkUniqueness(uname string, excl ...Account) error {
	if err := svc.repo.CheckUsernameUniqueness(uname, excl...); err != nil {
		if err == ErrUsernameExists {
			return core.NewValidationError(err, core.FieldError{Field: "username", Error: err.Error()})
		}
		return err
	}
	return nil
}

// Authenticate looks an account up by exact username and checks the secret.
// Rate limiting and lockout are a caller concern.
func (svc *Service) Authenticate(uname, pwd string) (Account, error) {
	acct, err := svc.repo.GetAccountByUsername(core.CleanString(uname, true /* lower */))
	if err != nil {
		return Account{}, err
	}
	if err = acct.CheckPassword(pwd); err != nil {
		return Account{}, ErrNotFound
	}
	return acct, nil
}

func (svc *Service) Create(na NewAccount) (Account, error) {
	now := time.Now().UTC()
	acct := Account{
		Name:        na.Name,
		Username:    na.Username,
		Email:       na.Email,
		Role:        na.Role,
		StaffNumber: na.StaffNumber,
		ClassLabel:  na.ClassLabel,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := acct.SetPassword(na.Password); err != nil {
		return Account{}, err
	}
	return svc.repo.CreateAccount(acct)
}

// BulkImportTeachers imports teacher rows with partial success: a row with a
// blank name is counted invalid; a row whose username collides with an
// existing account (or an earlier row) is counted skipped.
func (svc *Service) BulkImportTeachers(rows []ImportRow) (ImportResult, error) {
	existing, err := svc.repo.QueryAllAccounts()
	if err != nil {
		return ImportResult{}, err
	}
	taken := make(map[string]bool, len(existing))
	for _, acct := range existing {
		taken[acct.Username] = true
	}

	var res ImportResult
	for _, row := range rows {
		name := core.CleanString(row.Name)
		if name == "" {
			res.Invalid++
			continue
		}
		uname := core.CleanString(row.Username, true /* lower */)
		if uname == "" {
			uname = DeriveUsername(name)
		}
		if taken[uname] {
			res.Skipped++
			continue
		}
		pwd := row.Password
		if pwd == "" {
			pwd = svc.conf.DefaultImportPassword
		}

		now := time.Now().UTC()
		acct := Account{
			Name:        name,
			Username:    uname,
			Role:        RoleTeacher,
			StaffNumber: core.CleanString(row.StaffNumber),
			ClassLabel:  core.CleanString(row.ClassLabel),
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err = acct.SetPassword(pwd); err != nil {
			return res, err
		}
		if _, err = svc.repo.CreateAccount(acct); err != nil {
			return res, err
		}
		taken[uname] = true
		res.Created++
	}
	return res, nil
}

func (svc *Service) QueryTeachers() ([]Account, error) {
	return svc.repo.QueryAccountsByRole(RoleTeacher)
}

func (svc *Service) QueryAdmins() ([]Account, error) {
	return svc.repo.QueryAccountsByRole(RoleAdmin)
}

func (svc *Service) GetByID(id string) (Account, error) {
	return svc.repo.GetAccountByID(id)
}

func (svc *Service) GetByUsername(uname string) (Account, error) {
	return svc.repo.GetAccountByUsername(core.CleanString(uname, true /* lower */))
}

func (svc *Service) Update(id string, ua UpdateAccount) (Account, error) {
	orig, err := svc.repo.GetAccountByID(id)
	if err != nil {
		return Account{}, err
	}

	orig.Name = ua.Name
	orig.Username = ua.Username
	if ua.Email != "" {
		orig.Email = ua.Email
	}
	if ua.StaffNumber != "" {
		orig.StaffNumber = core.CleanString(ua.StaffNumber)
	}
	if ua.ClassLabel != "" {
		orig.ClassLabel = core.CleanString(ua.ClassLabel)
	}
	if ua.Password != "" {
		if err = orig.SetPassword(ua.Password); err != nil {
			return Account{}, err
		}
	}
	orig.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateAccount(orig)
}

// DeleteTeachers removes teacher accounts along with their students and those
// students' habit records, as one logical operation. Unknown ids are ignored;
// admin ids are never deleted.
func (svc *Service) DeleteTeachers(ids ...string) error {
	teacherIDs := make([]string, 0, len(ids))
	for _, id := range ids {
		acct, err := svc.repo.GetAccountByID(id)
		if err != nil {
			if err == ErrNotFound {
				continue
			}
			return err
		}
		if acct.IsTeacher() {
			teacherIDs = append(teacherIDs, acct.ID)
		}
	}
	if len(teacherIDs) == 0 {
		return nil
	}
	if err := svc.roster.DeleteByTeachers(teacherIDs...); err != nil {
		return err
	}
	return svc.repo.DeleteAccountsByID(teacherIDs...)
}

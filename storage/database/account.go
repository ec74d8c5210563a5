package database

import (
	"sync"

	"github.com/google/uuid"

	"github.com/sekolahku/pembiasaan/core/account"
)

// accountRecord is the persisted form of an Account; the password hash is
// json-hidden on the domain struct and carried separately here.
type accountRecord struct {
	account.Account
	PasswordHash []byte `json:"password_hash"`
}

type accountRepository struct {
	store Store
	mu    sync.RWMutex
}

func NewAccountRepository(store Store) account.Repository {
	return &accountRepository{store: store}
}

func (repo *accountRepository) load() ([]account.Account, error) {
	var recs []accountRecord
	if err := repo.store.ReadAll(AccountCollection, &recs); err != nil {
		return nil, err
	}
	accts := make([]account.Account, 0, len(recs))
	for _, rec := range recs {
		acct := rec.Account
		acct.PasswordHash = rec.PasswordHash
		accts = append(accts, acct)
	}
	return accts, nil
}

func (repo *accountRepository) save(accts []account.Account) error {
	recs := make([]accountRecord, 0, len(accts))
	for _, acct := range accts {
		recs = append(recs, accountRecord{Account: acct, PasswordHash: acct.PasswordHash})
	}
	return repo.store.WriteAll(AccountCollection, recs)
}

func (repo *accountRepository) CheckUsernameUniqueness(username string, excluded ...account.Account) error {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	accts, err := repo.load()
	if err != nil {
		return err
	}
	return checkUsernameTaken(accts, username, excluded)
}

func checkUsernameTaken(accts []account.Account, username string, excluded []account.Account) error {
	for _, acct := range accts {
		if acct.Username != username {
			continue
		}
		if isExcluded(acct, excluded) {
			continue
		}
		return account.ErrUsernameExists
	}
	return nil
}

func isExcluded(acct account.Account, excluded []account.Account) bool {
	for _, excl := range excluded {
		if excl.ID == acct.ID {
			return true
		}
	}
	return false
}

func (repo *accountRepository) CreateAccount(acct account.Account) (account.Account, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	accts, err := repo.load()
	if err != nil {
		return account.Account{}, err
	}
	// the uniqueness rule is enforced on every commit, not just at validation
	if err = checkUsernameTaken(accts, acct.Username, nil); err != nil {
		return account.Account{}, err
	}

	if acct.ID == "" {
		acct.ID = uuid.NewString()
	}
	accts = append(accts, acct)
	if err = repo.save(accts); err != nil {
		return account.Account{}, err
	}
	return acct, nil
}

func (repo *accountRepository) QueryAllAccounts() ([]account.Account, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()
	return repo.load()
}

func (repo *accountRepository) QueryAccountsByRole(role string) ([]account.Account, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	accts, err := repo.load()
	if err != nil {
		return nil, err
	}
	res := make([]account.Account, 0, len(accts))
	for _, acct := range accts {
		if acct.Role == role {
			res = append(res, acct)
		}
	}
	return res, nil
}

func (repo *accountRepository) GetAccountByID(id string) (account.Account, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	accts, err := repo.load()
	if err != nil {
		return account.Account{}, err
	}
	for _, acct := range accts {
		if acct.ID == id {
			return acct, nil
		}
	}
	return account.Account{}, account.ErrNotFound
}

func (repo *accountRepository) GetAccountByUsername(username string) (account.Account, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	accts, err := repo.load()
	if err != nil {
		return account.Account{}, err
	}
	for _, acct := range accts {
		if acct.Username == username {
			return acct, nil
		}
	}
	return account.Account{}, account.ErrNotFound
}

func (repo *accountRepository) UpdateAccount(acct account.Account) (account.Account, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	accts, err := repo.load()
	if err != nil {
		return account.Account{}, err
	}
	if err = checkUsernameTaken(accts, acct.Username, []account.Account{acct}); err != nil {
		return account.Account{}, err
	}
	for i := range accts {
		if accts[i].ID == acct.ID {
			accts[i] = acct
			if err = repo.save(accts); err != nil {
				return account.Account{}, err
			}
			return acct, nil
		}
	}
	return account.Account{}, account.ErrNotFound
}

func (repo *accountRepository) DeleteAccountsByID(ids ...string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	accts, err := repo.load()
	if err != nil {
		return err
	}
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	kept := accts[:0]
	for _, acct := range accts {
		if !drop[acct.ID] {
			kept = append(kept, acct)
		}
	}
	if len(kept) == len(accts) {
		return nil
	}
	return repo.save(kept)
}

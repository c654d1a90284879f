package services

import "sync"

// CompanyLocks serializes ledger mutations per company. Posting and chart
// mutations of one company take the same lock; different companies never contend.
type CompanyLocks struct {
	locks sync.Map // companyID -> *sync.Mutex
}

// NewCompanyLocks returns an empty lock table.
func NewCompanyLocks() *CompanyLocks {
	return &CompanyLocks{}
}

// Lock acquires the company's lock and returns its release function.
func (l *CompanyLocks) Lock(companyID string) func() {
	v, _ := l.locks.LoadOrStore(companyID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

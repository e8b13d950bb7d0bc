package views

import (
	"context"
	"errors"
	"sync"

	"github.com/agribizboost/agriadmin/internal/domain/dto"
)

var errBoom = errors.New("Network error: Unable to connect to the server")

// fakeAPI answers from fields; nil funcs return zero values.
type fakeAPI struct {
	mu sync.Mutex

	summary    func(dto.TimeFilter) (*dto.DashboardSummary, error)
	farmers    func(dto.FarmerFilters) (*dto.FarmersPage, error)
	farmer     func(string) (*dto.FarmerData, error)
	trends     func(dto.ServiceFilter) (*dto.ServiceTrends, error)
	logs       func(dto.ActivityLogFilters) (*dto.ActivityLogPage, error)
	health     func() (*dto.HealthStatus, error)
	admins     []dto.AdminUser
	adminsErr  error
	calls      map[string]int
	lastFilter dto.FarmerFilters
}

func (f *fakeAPI) hit(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[name]++
}

func (f *fakeAPI) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeAPI) DashboardSummary(_ context.Context, tf dto.TimeFilter) (*dto.DashboardSummary, error) {
	f.hit("summary")
	if f.summary == nil {
		return &dto.DashboardSummary{}, nil
	}
	return f.summary(tf)
}

func (f *fakeAPI) Farmers(_ context.Context, q dto.FarmerFilters) (*dto.FarmersPage, error) {
	f.hit("farmers")
	f.lastFilter = q
	if f.farmers == nil {
		return &dto.FarmersPage{}, nil
	}
	return f.farmers(q)
}

func (f *fakeAPI) Farmer(_ context.Context, id string, _ dto.TimeFilter) (*dto.FarmerData, error) {
	f.hit("farmer")
	return f.farmer(id)
}

func (f *fakeAPI) ExportFarmer(_ context.Context, id string) (*dto.FarmerData, error) {
	f.hit("export")
	return f.farmer(id)
}

func (f *fakeAPI) ServiceTrends(_ context.Context, svc dto.ServiceFilter, _ dto.TimeFilter) (*dto.ServiceTrends, error) {
	f.hit("trends")
	return f.trends(svc)
}

func (f *fakeAPI) ActivityLogs(_ context.Context, q dto.ActivityLogFilters) (*dto.ActivityLogPage, error) {
	f.hit("logs")
	return f.logs(q)
}

func (f *fakeAPI) Health(context.Context) (*dto.HealthStatus, error) {
	f.hit("health")
	if f.health == nil {
		return &dto.HealthStatus{Status: "healthy"}, nil
	}
	return f.health()
}

func (f *fakeAPI) AdminUsers(context.Context) ([]dto.AdminUser, error) {
	f.hit("admins")
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]dto.AdminUser(nil), f.admins...), f.adminsErr
}

func (f *fakeAPI) CreateAdminUser(_ context.Context, in dto.CreateAdminRequest) (*dto.AdminUser, error) {
	f.hit("create")
	u := dto.AdminUser{ID: in.PhoneNumber, Name: in.Name, PhoneNumber: in.PhoneNumber, IsAdmin: true, IsActive: true, IsSuperAdmin: in.IsSuperAdmin}
	f.mu.Lock()
	f.admins = append(f.admins, u)
	f.mu.Unlock()
	return &u, nil
}

func (f *fakeAPI) UpdateAdminUser(_ context.Context, id string, in dto.UpdateAdminRequest) (*dto.AdminUser, error) {
	f.hit("update")
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.admins {
		if f.admins[i].ID == id {
			if in.Name != nil {
				f.admins[i].Name = *in.Name
			}
			if in.IsActive != nil {
				f.admins[i].IsActive = *in.IsActive
			}
			u := f.admins[i]
			return &u, nil
		}
	}
	return nil, errors.New("Admin user not found")
}

func (f *fakeAPI) DeleteAdminUser(_ context.Context, id string) error {
	f.hit("delete")
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.admins {
		if f.admins[i].ID == id {
			f.admins = append(f.admins[:i], f.admins[i+1:]...)
			return nil
		}
	}
	return errors.New("Admin user not found")
}

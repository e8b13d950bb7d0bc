package views

import (
	"context"
	"strings"

	"github.com/agribizboost/agriadmin/internal/domain/dto"
)

// AdminStats are the counters above the admin table.
type AdminStats struct {
	Total    int
	Active   int
	Super    int
	Regional int
}

// AdminManagement lists and edits admin accounts.
type AdminManagement struct {
	state
	api API

	Search string
	Admins []dto.AdminUser
}

func NewAdminManagement(api API) *AdminManagement {
	return &AdminManagement{api: api}
}

func (m *AdminManagement) Load(ctx context.Context) {
	m.begin()
	admins, err := m.api.AdminUsers(ctx)
	if err != nil {
		m.fail(err)
		return
	}
	m.Admins = admins
	m.settle(len(admins) == 0)
}

// Filtered applies Search: a case-insensitive name substring or a phone
// substring.
func (m *AdminManagement) Filtered() []dto.AdminUser {
	if m.Search == "" {
		return m.Admins
	}
	term := strings.ToLower(m.Search)
	var out []dto.AdminUser
	for _, a := range m.Admins {
		if strings.Contains(strings.ToLower(a.Name), term) || strings.Contains(a.PhoneNumber, m.Search) {
			out = append(out, a)
		}
	}
	return out
}

// Stats counts over every loaded admin, ignoring Search.
func (m *AdminManagement) Stats() AdminStats {
	st := AdminStats{Total: len(m.Admins)}
	for _, a := range m.Admins {
		if a.IsActive {
			st.Active++
		}
		if a.IsSuperAdmin {
			st.Super++
		} else if a.IsAdmin {
			st.Regional++
		}
	}
	return st
}

// Create adds an admin and reloads the list.
func (m *AdminManagement) Create(ctx context.Context, in dto.CreateAdminRequest) (*dto.AdminUser, error) {
	u, err := m.api.CreateAdminUser(ctx, in)
	if err != nil {
		return nil, err
	}
	m.Load(ctx)
	return u, nil
}

// Update edits an admin and reloads the list.
func (m *AdminManagement) Update(ctx context.Context, id string, in dto.UpdateAdminRequest) (*dto.AdminUser, error) {
	u, err := m.api.UpdateAdminUser(ctx, id, in)
	if err != nil {
		return nil, err
	}
	m.Load(ctx)
	return u, nil
}

// Delete revokes an admin and reloads the list.
func (m *AdminManagement) Delete(ctx context.Context, id string) error {
	if err := m.api.DeleteAdminUser(ctx, id); err != nil {
		return err
	}
	m.Load(ctx)
	return nil
}

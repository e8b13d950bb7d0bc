package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/agribizboost/agriadmin/internal/domain/dto"
)

// Login exchanges credentials for a token pair. It bypasses the
// interceptor: no bearer header is sent and a 401 is returned as is.
// The caller stores the tokens.
func (c *Client) Login(ctx context.Context, phone, password string) (*dto.TokenPair, error) {
	var pair dto.TokenPair
	in := dto.LoginRequest{PhoneNumber: phone, Password: password}
	if err := c.plain(ctx, http.MethodPost, "/auth/login-with-json", in, &pair); err != nil {
		return nil, err
	}
	return &pair, nil
}

// Logout revokes refreshToken on the server.
func (c *Client) Logout(ctx context.Context, refreshToken string) error {
	return c.plain(ctx, http.MethodPost, "/auth/logout", dto.RefreshRequest{RefreshToken: refreshToken}, nil)
}

// Me returns the account behind the stored access token.
func (c *Client) Me(ctx context.Context) (*dto.CurrentUser, error) {
	var out dto.CurrentUser
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DashboardSummary fetches GET /admin/dashboard/summary.
func (c *Client) DashboardSummary(ctx context.Context, tf dto.TimeFilter) (*dto.DashboardSummary, error) {
	q := url.Values{}
	setTime(q, tf)
	var out dto.DashboardSummary
	if err := c.do(ctx, http.MethodGet, "/admin/dashboard/summary", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Farmers fetches one page of GET /admin/farmers. Zero-valued filters are
// left off the query so the server defaults apply.
func (c *Client) Farmers(ctx context.Context, f dto.FarmerFilters) (*dto.FarmersPage, error) {
	var out dto.FarmersPage
	if err := c.do(ctx, http.MethodGet, "/admin/farmers", farmerQuery(f), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Farmer fetches GET /admin/farmers/{id}.
func (c *Client) Farmer(ctx context.Context, id string, tf dto.TimeFilter) (*dto.FarmerData, error) {
	q := url.Values{}
	setTime(q, tf)
	var out dto.FarmerData
	if err := c.do(ctx, http.MethodGet, "/admin/farmers/"+url.PathEscape(id), q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SearchFarmers fetches GET /admin/farmers/search. limit <= 0 uses 10.
func (c *Client) SearchFarmers(ctx context.Context, term string, limit int) (*dto.FarmerSearchResults, error) {
	if limit <= 0 {
		limit = 10
	}
	q := url.Values{"q": {term}, "limit": {strconv.Itoa(limit)}}
	var out dto.FarmerSearchResults
	if err := c.do(ctx, http.MethodGet, "/admin/farmers/search", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FarmersNeedingAttention fetches GET /admin/farmers/needing-attention.
func (c *Client) FarmersNeedingAttention(ctx context.Context, page, pageSize int) (*dto.FarmersPage, error) {
	q := url.Values{}
	setPage(q, page, pageSize)
	var out dto.FarmersPage
	if err := c.do(ctx, http.MethodGet, "/admin/farmers/needing-attention", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ExportFarmer fetches GET /admin/farmers/{id}/export.
func (c *Client) ExportFarmer(ctx context.Context, id string) (*dto.FarmerData, error) {
	var out dto.FarmerData
	if err := c.do(ctx, http.MethodGet, "/admin/farmers/"+url.PathEscape(id)+"/export", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ServiceTrends fetches GET /admin/trends/{service}.
func (c *Client) ServiceTrends(ctx context.Context, service dto.ServiceFilter, tf dto.TimeFilter) (*dto.ServiceTrends, error) {
	q := url.Values{}
	setTime(q, tf)
	var out dto.ServiceTrends
	if err := c.do(ctx, http.MethodGet, "/admin/trends/"+url.PathEscape(string(service)), q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ActivityLogs fetches GET /admin/activity-logs.
func (c *Client) ActivityLogs(ctx context.Context, f dto.ActivityLogFilters) (*dto.ActivityLogPage, error) {
	q := url.Values{}
	setNonEmpty(q, "user_id", f.UserID)
	setNonEmpty(q, "action", f.Action)
	setNonEmpty(q, "service", f.Service)
	setNonEmpty(q, "start_date", f.StartDate)
	setNonEmpty(q, "end_date", f.EndDate)
	setPage(q, f.Page, f.PageSize)

	var out dto.ActivityLogPage
	if err := c.do(ctx, http.MethodGet, "/admin/activity-logs", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Health fetches GET /admin/health.
func (c *Client) Health(ctx context.Context) (*dto.HealthStatus, error) {
	var out dto.HealthStatus
	if err := c.do(ctx, http.MethodGet, "/admin/health", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

/*─────────────────────────────────────────────────────────────────────────────*
| Admin management                                                             |
*─────────────────────────────────────────────────────────────────────────────*/

// AdminUsers fetches GET /admin/users.
func (c *Client) AdminUsers(ctx context.Context) ([]dto.AdminUser, error) {
	var out dto.AdminUsers
	if err := c.do(ctx, http.MethodGet, "/admin/users", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Users, nil
}

// CreateAdminUser posts to /admin/users.
func (c *Client) CreateAdminUser(ctx context.Context, in dto.CreateAdminRequest) (*dto.AdminUser, error) {
	var out dto.AdminUser
	if err := c.do(ctx, http.MethodPost, "/admin/users", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateAdminUser puts to /admin/users/{id}.
func (c *Client) UpdateAdminUser(ctx context.Context, id string, in dto.UpdateAdminRequest) (*dto.AdminUser, error) {
	var out dto.AdminUser
	if err := c.do(ctx, http.MethodPut, "/admin/users/"+url.PathEscape(id), nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteAdminUser revokes admin privileges from id.
func (c *Client) DeleteAdminUser(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/admin/users/"+url.PathEscape(id), nil, nil, nil)
}

// query helpers

func farmerQuery(f dto.FarmerFilters) url.Values {
	q := url.Values{}
	setTime(q, f.TimeFilter)
	if f.ServiceFilter != "" && f.ServiceFilter != dto.ServiceAll {
		q.Set("service_filter", string(f.ServiceFilter))
	}
	setNonEmpty(q, "region", f.Region)
	if f.IsActive != nil {
		q.Set("is_active", strconv.FormatBool(*f.IsActive))
	}
	if f.MinEngagementScore != nil {
		q.Set("min_engagement_score", strconv.FormatFloat(*f.MinEngagementScore, 'f', -1, 64))
	}
	if f.MaxEngagementScore != nil {
		q.Set("max_engagement_score", strconv.FormatFloat(*f.MaxEngagementScore, 'f', -1, 64))
	}
	if f.NeedsAttention != nil {
		q.Set("needs_attention", strconv.FormatBool(*f.NeedsAttention))
	}
	setPage(q, f.Page, f.PageSize)
	setNonEmpty(q, "sort_by", f.SortBy)
	setNonEmpty(q, "sort_order", f.SortOrder)
	return q
}

func setTime(q url.Values, tf dto.TimeFilter) {
	if tf != "" {
		q.Set("time_filter", string(tf))
	}
}

func setPage(q url.Values, page, pageSize int) {
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if pageSize > 0 {
		q.Set("page_size", strconv.Itoa(pageSize))
	}
}

func setNonEmpty(q url.Values, key, v string) {
	if v != "" {
		q.Set(key, v)
	}
}

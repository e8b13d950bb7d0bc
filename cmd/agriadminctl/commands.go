package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/agribizboost/agriadmin/internal/domain/dto"
	"github.com/agribizboost/agriadmin/internal/export"
	"github.com/agribizboost/agriadmin/internal/views"
	"github.com/spf13/pflag"
)

type command struct {
	name  string
	usage string
	flags func(fs *pflag.FlagSet)
	run   func(ctx context.Context, a *app, fs *pflag.FlagSet) error
}

var commands = []command{
	{"login", "login --phone +2519... [--password ...]", loginFlags, runLogin},
	{"logout", "logout", nil, runLogout},
	{"whoami", "whoami", nil, runWhoami},
	{"dashboard", "dashboard [--time-filter monthly] [--export csv|json|txt]", timeFlags("monthly"), runDashboard},
	{"farmers", "farmers [--page N] [--search s] [--region r] [--status all|active|inactive] [--risk all|low|medium|high] [--attention] [--lookup q]", farmersFlags, runFarmers},
	{"farmer", "farmer <id> [--time-filter all] [--export csv|json|txt]", timeFlags("all"), runFarmer},
	{"analytics", "analytics [--time-filter monthly] [--export csv|json|txt]", timeFlags("monthly"), runAnalytics},
	{"monitor", "monitor [--export csv|json]", nil, runMonitor},
	{"admins", "admins list|create|update|delete ...", adminsFlags, runAdmins},
}

func findCommand(name string) (command, bool) {
	for _, c := range commands {
		if c.name == name {
			return c, true
		}
	}
	return command{}, false
}

// errNotSignedIn short-circuits pages that need a session.
var errNotSignedIn = errors.New("not signed in")

func requireUser(a *app) error {
	if a.sess.User() == nil {
		return errNotSignedIn
	}
	return nil
}

func timeFlags(def string) func(*pflag.FlagSet) {
	return func(fs *pflag.FlagSet) {
		fs.StringP("time-filter", "t", def, "daily|weekly|monthly|yearly|all")
	}
}

func timeFilter(fs *pflag.FlagSet) (dto.TimeFilter, error) {
	s, _ := fs.GetString("time-filter")
	tf := dto.TimeFilter(s)
	if !tf.Valid() {
		return "", fmt.Errorf("invalid --time-filter %q", s)
	}
	return tf, nil
}

/*─────────────────────────────────────────────────────────────────────────────*
| Session                                                                      |
*─────────────────────────────────────────────────────────────────────────────*/

func loginFlags(fs *pflag.FlagSet) {
	fs.String("phone", "", "phone number")
	fs.String("password", "", "password (read from stdin when omitted)")
}

func runLogin(ctx context.Context, a *app, fs *pflag.FlagSet) error {
	phone, _ := fs.GetString("phone")
	password, _ := fs.GetString("password")
	if phone == "" {
		return errors.New("--phone is required")
	}
	if password == "" {
		fmt.Fprint(a.errw, "Password: ")
		line, err := bufio.NewReader(a.in).ReadString('\n')
		if err != nil && line == "" {
			return errors.New("no password given")
		}
		password = strings.TrimRight(line, "\r\n")
	}

	if err := a.sess.Login(ctx, phone, password); err != nil {
		return err
	}
	u := a.sess.User()
	fmt.Fprintf(a.out, "Signed in as %s (%s)\n", u.Phone, u.Role)
	return nil
}

func runLogout(ctx context.Context, a *app, _ *pflag.FlagSet) error {
	a.sess.Logout(ctx)
	return nil
}

func runWhoami(ctx context.Context, a *app, _ *pflag.FlagSet) error {
	u := a.sess.User()
	if u == nil {
		fmt.Fprintln(a.out, "Not signed in.")
		return nil
	}
	fmt.Fprintf(a.out, "%s  %s  %s\n", u.Name, u.Phone, u.Role)

	me, err := a.api.Me(ctx)
	if err != nil {
		return err
	}
	perms := "all"
	if !me.IsSuperAdmin {
		perms = strings.Join(me.Permissions, ", ")
	}
	fmt.Fprintf(a.out, "server: %s  admin=%s  super=%s  permissions: %s\n", me.Name, yes(me.IsAdmin), yes(me.IsSuperAdmin), perms)
	return nil
}

/*─────────────────────────────────────────────────────────────────────────────*
| Pages                                                                        |
*─────────────────────────────────────────────────────────────────────────────*/

func runDashboard(ctx context.Context, a *app, fs *pflag.FlagSet) error {
	if err := requireUser(a); err != nil {
		return err
	}
	tf, err := timeFilter(fs)
	if err != nil {
		return err
	}
	d := views.NewDashboard(a.api)
	d.TimeFilter = tf
	d.Load(ctx)

	switch d.Status() {
	case views.StatusError:
		return d.Err()
	case views.StatusEmpty:
		fmt.Fprintln(a.out, "No dashboard data for this period.")
		return nil
	}

	s := d.Summary
	heading(a.out, "Dashboard ("+string(tf)+")")
	table(a.out, []string{"FARMERS", "ACTIVE", "INACTIVE", "NEED ATTENTION", "SERVICE USAGE"}, [][]string{{
		strconv.FormatInt(s.TotalFarmers, 10),
		strconv.FormatInt(s.ActiveFarmers, 10),
		strconv.FormatInt(s.InactiveFarmers, 10),
		strconv.FormatInt(s.FarmersNeedingAttention, 10),
		strconv.FormatInt(d.TotalServiceUsage(), 10),
	}})
	heading(a.out, "Service usage")
	bars(a.out, d.ServiceUsage())
	heading(a.out, "Farmers by region")
	bars(a.out, d.RegionalData())
	heading(a.out, "Financials")
	fmt.Fprintf(a.out, "revenue %s  expenses %s  profit %s\n",
		etb(s.TotalSystemRevenue), etb(s.TotalSystemExpenses), etb(s.TotalSystemProfit))

	return a.save(fs, "dashboard_"+string(tf),
		func() export.Table { return barTable("service", d.ServiceUsage()) },
		s,
		func() export.Report { return export.DashboardReport(*s, a.now()) })
}

func farmersFlags(fs *pflag.FlagSet) {
	fs.Int("page", 1, "page number")
	fs.String("search", "", "name, phone or location")
	fs.String("region", "", "region")
	fs.String("status", views.AnyStatus, "all|active|inactive")
	fs.String("risk", views.AnyRisk, "all|low|medium|high|unknown")
	fs.Bool("attention", false, "only farmers needing attention")
	fs.String("lookup", "", "quick server-side lookup by name or phone")
}

func runFarmers(ctx context.Context, a *app, fs *pflag.FlagSet) error {
	if err := requireUser(a); err != nil {
		return err
	}
	if q, _ := fs.GetString("lookup"); q != "" {
		res, err := a.api.SearchFarmers(ctx, q, 10)
		if err != nil {
			return err
		}
		rows := make([][]string, 0, len(res.Results))
		for _, r := range res.Results {
			rows = append(rows, []string{r.ID, r.Name, r.PhoneNumber, r.Location, yes(r.IsActive)})
		}
		table(a.out, []string{"ID", "NAME", "PHONE", "LOCATION", "ACTIVE"}, rows)
		fmt.Fprintf(a.out, "%d match(es)\n", res.Count)
		return nil
	}

	page, _ := fs.GetInt("page")
	var flt views.FarmerFilter
	flt.Search, _ = fs.GetString("search")
	flt.Region, _ = fs.GetString("region")
	flt.Status, _ = fs.GetString("status")
	flt.Risk, _ = fs.GetString("risk")

	var (
		rows              []dto.FarmerData
		total             int64
		shown, totalPages int
	)
	if attention, _ := fs.GetBool("attention"); attention {
		res, err := a.api.FarmersNeedingAttention(ctx, page, views.FarmersPageSize)
		if err != nil {
			return err
		}
		rows = views.FilterFarmers(res.Farmers, flt)
		total, shown, totalPages = res.TotalCount, len(rows), res.TotalPages
	} else {
		l := views.NewFarmersList(a.api)
		l.Page = page
		l.Filter = flt
		l.Load(ctx)
		if l.Status() == views.StatusError {
			return l.Err()
		}
		rows, total, shown, totalPages = l.Rows(), l.TotalCount(), l.FilteredCount(), l.TotalPages()
	}

	out := make([][]string, 0, len(rows))
	for _, f := range rows {
		attn := ""
		if f.NeedsAttention {
			attn = "!"
		}
		out = append(out, []string{
			f.Activity.UserID, f.Activity.Name, f.Activity.PhoneNumber, f.Activity.Location,
			yes(f.Activity.IsActive), strconv.FormatFloat(f.EngagementScore, 'f', 1, 64), f.RiskLevel, attn,
		})
	}
	table(a.out, []string{"ID", "NAME", "PHONE", "LOCATION", "ACTIVE", "SCORE", "RISK", ""}, out)
	fmt.Fprintf(a.out, "Showing %d of %d farmers (page %d of %d)\n", shown, total, page, totalPages)

	return a.save(fs, "farmers",
		func() export.Table { return export.FarmersTable(rows) },
		rows,
		func() export.Report { return farmersReport(rows, a) })
}

func runFarmer(ctx context.Context, a *app, fs *pflag.FlagSet) error {
	if err := requireUser(a); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("usage: farmer <id>")
	}
	tf, err := timeFilter(fs)
	if err != nil {
		return err
	}
	d := views.NewFarmerDetails(a.api, fs.Arg(0))
	d.TimeFilter = tf
	d.Load(ctx)
	if d.Status() == views.StatusError {
		return d.Err()
	}

	f := d.Farmer
	heading(a.out, f.Activity.Name+" ("+f.Activity.PhoneNumber+")")
	fmt.Fprintf(a.out, "location %s  active %s  logins %d  last login %s\n",
		f.Activity.Location, yes(f.Activity.IsActive), f.Activity.TotalLogins, when(f.Activity.LastLogin))
	fmt.Fprintf(a.out, "engagement %.1f  risk %s  needs attention %s\n", f.EngagementScore, f.RiskLevel, yes(f.NeedsAttention))
	if e := f.Expenses; e != nil {
		heading(a.out, "Expenses")
		fmt.Fprintf(a.out, "revenue %s  expenses %s  profit %s  entries %d\n",
			etb(e.TotalRevenue), etb(e.TotalExpenses), etb(e.TotalProfit), e.ExpenseCount)
		if g := d.TradedGoods(); len(g) > 0 {
			bars(a.out, g)
		}
	}
	if fc := f.Forecasting; fc != nil {
		heading(a.out, "Forecasting")
		fmt.Fprintf(a.out, "predictions %d  regions %s  crops %s\n",
			fc.TotalPredictions, strings.Join(fc.RegionsQueried, ", "), strings.Join(fc.CropsQueried, ", "))
		if q := d.FrequentQueries(); len(q) > 0 {
			bars(a.out, q)
		}
	}
	if h := f.Health; h != nil {
		heading(a.out, "Health assessments")
		fmt.Fprintf(a.out, "assessments %d  crops %s  subsidies %s\n",
			h.TotalAssessments, strings.Join(h.CropTypesAssessed, ", "), etb(h.TotalSubsidies))
	}
	if r := f.Recommendations; r != nil {
		heading(a.out, "Recommendations")
		fmt.Fprintf(a.out, "loan advice %d  cost cutting %d\n", r.LoanAdviceCount, r.CostCuttingCount)
	}

	if raw, _ := fs.GetString("export"); raw == "" {
		return nil
	}
	full, err := d.Export(ctx)
	if err != nil {
		return err
	}
	return a.save(fs, "farmer_"+d.ID,
		func() export.Table { return export.FarmersTable([]dto.FarmerData{*full}) },
		full,
		func() export.Report { return export.FarmerReport(*full, a.now()) })
}

func runAnalytics(ctx context.Context, a *app, fs *pflag.FlagSet) error {
	if err := requireUser(a); err != nil {
		return err
	}
	tf, err := timeFilter(fs)
	if err != nil {
		return err
	}
	an := views.NewAnalytics(a.api)
	an.TimeFilter = tf
	an.Load(ctx)
	switch an.Status() {
	case views.StatusError:
		return an.Err()
	case views.StatusEmpty:
		fmt.Fprintln(a.out, "No analytics data available.")
		return nil
	}

	heading(a.out, "Analytics ("+string(tf)+")")
	table(a.out, []string{"API CALLS", "ACTIVE", "PROFIT MARGIN", "NEED ATTENTION"}, [][]string{{
		strconv.FormatInt(an.TotalAPICalls(), 10), pct(an.ActivePercent()), pct(an.ProfitMargin()), pct(an.AttentionPercent()),
	}})
	heading(a.out, "Service usage")
	bars(a.out, an.ServiceUsage())

	heading(a.out, "Regional performance")
	regional := an.RegionalTable()
	rows := make([][]string, 0, len(regional))
	for _, r := range regional {
		rows = append(rows, []string{r.Region, strconv.FormatInt(r.Farmers, 10), pct(r.Share)})
	}
	table(a.out, []string{"REGION", "FARMERS", "SHARE"}, rows)

	for _, t := range an.Trends {
		heading(a.out, "Trend: "+string(t.Service))
		pts := make([]views.Bar, 0, len(t.Trends))
		for _, p := range t.Trends {
			pts = append(pts, views.Bar{Label: p.Date, Value: p.UsageCount})
		}
		bars(a.out, pts)
	}
	if len(an.Dropped) > 0 {
		names := make([]string, len(an.Dropped))
		for i, s := range an.Dropped {
			names[i] = string(s)
		}
		fmt.Fprintf(a.errw, "trends unavailable: %s\n", strings.Join(names, ", "))
	}

	return a.save(fs, "analytics_"+string(tf),
		func() export.Table {
			t := export.Table{Header: []string{"region", "farmers", "share_percent"}}
			for _, r := range regional {
				t.Rows = append(t.Rows, []string{r.Region, strconv.FormatInt(r.Farmers, 10), strconv.FormatFloat(r.Share, 'f', 1, 64)})
			}
			return t
		},
		map[string]any{"summary": an.Summary, "trends": an.Trends},
		func() export.Report { return export.DashboardReport(*an.Summary, a.now()) })
}

func runMonitor(ctx context.Context, a *app, fs *pflag.FlagSet) error {
	if err := requireUser(a); err != nil {
		return err
	}
	m := views.NewSystemMonitoring(a.api)
	m.Load(ctx)
	if m.Status() == views.StatusError {
		return m.Err()
	}

	heading(a.out, "Backend")
	switch {
	case m.Healthy():
		fmt.Fprintf(a.out, "healthy (database %s)\n", m.Health.Database)
	case m.HealthErr != nil:
		fmt.Fprintf(a.out, "unreachable: %v\n", m.HealthErr)
	case m.Health == nil:
		fmt.Fprintln(a.out, "unknown")
	default:
		fmt.Fprintf(a.out, "%s %s\n", m.Health.Status, m.Health.Error)
	}

	heading(a.out, "Recent activity")
	if m.Status() == views.StatusEmpty {
		fmt.Fprintln(a.out, "No recent activity.")
	} else {
		rows := make([][]string, 0, 10)
		for _, l := range m.Recent(10) {
			rows = append(rows, []string{l.Timestamp.Local().Format("2006-01-02 15:04:05"), l.Action, l.Service, l.UserID, l.Status})
		}
		table(a.out, []string{"TIME", "ACTION", "SERVICE", "USER", "STATUS"}, rows)
		fmt.Fprintf(a.out, "%d of %d entries\n", len(rows), m.Total)
	}

	return a.save(fs, "activity_logs",
		func() export.Table { return export.ActivityLogsTable(m.Logs) },
		m.Logs,
		nil)
}

/*─────────────────────────────────────────────────────────────────────────────*
| Admins                                                                       |
*─────────────────────────────────────────────────────────────────────────────*/

func adminsFlags(fs *pflag.FlagSet) {
	fs.String("search", "", "filter by name or phone (list)")
	fs.String("name", "", "full name (create, update)")
	fs.String("phone", "", "phone number (create)")
	fs.String("password", "", "initial password (create)")
	fs.Bool("super", false, "super admin (create, update)")
	fs.Bool("active", true, "account active (update)")
	fs.StringSlice("perm", nil, "permission, repeatable (create, update)")
}

func runAdmins(ctx context.Context, a *app, fs *pflag.FlagSet) error {
	if err := requireUser(a); err != nil {
		return err
	}
	sub := "list"
	if fs.NArg() > 0 {
		sub = fs.Arg(0)
	}
	m := views.NewAdminManagement(a.api)

	switch sub {
	case "list":
		m.Search, _ = fs.GetString("search")
		m.Load(ctx)
	case "create":
		var in dto.CreateAdminRequest
		in.Name, _ = fs.GetString("name")
		in.PhoneNumber, _ = fs.GetString("phone")
		in.Password, _ = fs.GetString("password")
		in.IsSuperAdmin, _ = fs.GetBool("super")
		in.Permissions, _ = fs.GetStringSlice("perm")
		if in.Name == "" || in.PhoneNumber == "" || in.Password == "" {
			return errors.New("create needs --name, --phone and --password")
		}
		u, err := m.Create(ctx, in)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Created admin %s (%s)\n", u.Name, u.ID)
	case "update":
		if fs.NArg() != 2 {
			return errors.New("usage: admins update <id> [--name ..] [--active=false] [--super] [--perm ..]")
		}
		var in dto.UpdateAdminRequest
		if fs.Changed("name") {
			v, _ := fs.GetString("name")
			in.Name = &v
		}
		if fs.Changed("active") {
			v, _ := fs.GetBool("active")
			in.IsActive = &v
		}
		if fs.Changed("super") {
			v, _ := fs.GetBool("super")
			in.IsSuperAdmin = &v
		}
		if fs.Changed("perm") {
			v, _ := fs.GetStringSlice("perm")
			in.Permissions = &v
		}
		u, err := m.Update(ctx, fs.Arg(1), in)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Updated admin %s (%s)\n", u.Name, u.ID)
	case "delete":
		if fs.NArg() != 2 {
			return errors.New("usage: admins delete <id>")
		}
		if err := m.Delete(ctx, fs.Arg(1)); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Removed admin privileges from %s\n", fs.Arg(1))
	default:
		return fmt.Errorf("unknown admins subcommand %q", sub)
	}

	if m.Status() == views.StatusError {
		return m.Err()
	}
	st := m.Stats()
	heading(a.out, "Admins")
	fmt.Fprintf(a.out, "total %d  active %d  super %d  regional %d\n", st.Total, st.Active, st.Super, st.Regional)

	list := m.Filtered()
	rows := make([][]string, 0, len(list))
	for _, u := range list {
		rows = append(rows, []string{u.ID, u.Name, u.PhoneNumber, yes(u.IsActive), yes(u.IsSuperAdmin), strings.Join(u.Permissions, ",")})
	}
	table(a.out, []string{"ID", "NAME", "PHONE", "ACTIVE", "SUPER", "PERMISSIONS"}, rows)

	return a.save(fs, "admins",
		func() export.Table { return export.AdminsTable(list) },
		list,
		nil)
}

// helpers

func barTable(label string, data []views.Bar) export.Table {
	t := export.Table{Header: []string{label, "count"}}
	for _, b := range data {
		t.Rows = append(t.Rows, []string{b.Label, strconv.FormatInt(b.Value, 10)})
	}
	return t
}

func farmersReport(rows []dto.FarmerData, a *app) export.Report {
	sec := export.Section{Title: "Farmers"}
	for _, f := range rows {
		sec.Lines = append(sec.Lines, export.Line{
			Label: f.Activity.Name,
			Value: fmt.Sprintf("%s, %s, score %.1f, risk %s", f.Activity.PhoneNumber, f.Activity.Location, f.EngagementScore, f.RiskLevel),
		})
	}
	return export.Report{Title: "AgriBizBoost Farmers", Generated: a.now(), Sections: []export.Section{sec}}
}

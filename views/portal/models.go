// Package portal renders the admin panel pages.
package portal

// LoginData is what the login form is rendered with
type LoginData struct {
	Email string
	Error string
}

// FeatureCard is one feature on the dashboard
type FeatureCard struct {
	Name        string
	Description string
	Enabled     bool
}

func (f FeatureCard) status() string {
	if f.Enabled {
		return "Ativo"
	}
	return "Desativado"
}

func (f FeatureCard) badgeClasses() string {
	if f.Enabled {
		return "bg-emerald-100 text-emerald-800"
	}
	return "bg-slate-100 text-slate-600"
}

// Stat is a labelled counter on the dashboard
type Stat struct {
	Label string
	Value int
}

// DashboardData is the content of the admin dashboard
type DashboardData struct {
	UserName string
	Features []FeatureCard
	Stats    []Stat
}

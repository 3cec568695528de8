// ABOUTME: Search, option filters and sort orders for each entity list
// ABOUTME: Pure functions over store snapshots; inputs are never modified
package query

import (
	"cmp"
	"slices"
	"strings"

	"github.com/harperreed/energycrm/models"
)

// All disables an option filter. The empty string does the same.
const All = "all"

type ContactFilter struct {
	Search string
	Status string
}

type CompanyFilter struct {
	Search  string
	Type    string
	Segment string
	Status  string
}

type DealFilter struct {
	Search      string
	Stage       string
	ProjectType string
}

type ActivityFilter struct {
	Search  string
	Type    string
	Outcome string
}

// Contacts matches name, email or title against Search. Order is preserved.
func Contacts(contacts []models.Contact, f ContactFilter) []models.Contact {
	out := []models.Contact{}
	for _, c := range contacts {
		if !containsFold(f.Search, c.Name, c.Email, c.Title) {
			continue
		}
		if !option(f.Status, string(c.Status)) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// Companies matches name against Search and sorts by revenue, highest first.
// Companies without revenue count as zero.
func Companies(companies []models.Company, f CompanyFilter) []models.Company {
	out := []models.Company{}
	for _, c := range companies {
		if !containsFold(f.Search, c.Name) {
			continue
		}
		if !option(f.Type, string(c.Type)) || !option(f.Segment, string(c.IndustrySegment)) || !option(f.Status, string(c.RelationshipStatus)) {
			continue
		}
		out = append(out, c)
	}
	slices.SortStableFunc(out, func(a, b models.Company) int {
		return cmp.Compare(revenue(b), revenue(a))
	})
	return out
}

// Deals matches name against Search and sorts by value, highest first.
func Deals(deals []models.Deal, f DealFilter) []models.Deal {
	out := []models.Deal{}
	for _, d := range deals {
		if !containsFold(f.Search, d.Name) {
			continue
		}
		if !option(f.Stage, string(d.Stage)) || !option(f.ProjectType, string(d.ProjectType)) {
			continue
		}
		out = append(out, d)
	}
	slices.SortStableFunc(out, func(a, b models.Deal) int {
		return cmp.Compare(b.Value, a.Value)
	})
	return out
}

// Activities matches subject or description against Search and sorts by
// date, newest first. An activity without an outcome only passes an
// unrestricted outcome filter.
func Activities(activities []models.Activity, f ActivityFilter) []models.Activity {
	out := []models.Activity{}
	for _, a := range activities {
		if !containsFold(f.Search, a.Subject, a.Description) {
			continue
		}
		if !option(f.Type, string(a.Type)) || !option(f.Outcome, string(a.Outcome)) {
			continue
		}
		out = append(out, a)
	}
	slices.SortStableFunc(out, func(a, b models.Activity) int {
		return b.Date.Compare(a.Date)
	})
	return out
}

func option(filter, value string) bool {
	return filter == "" || filter == All || filter == value
}

func containsFold(term string, fields ...string) bool {
	if term == "" {
		return true
	}
	term = strings.ToLower(term)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}

func revenue(c models.Company) float64 {
	if c.Revenue == nil {
		return 0
	}
	return *c.Revenue
}

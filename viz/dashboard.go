// ABOUTME: Terminal dashboard statistics and rendering
// ABOUTME: Provides ASCII dashboard for CRM overview
package viz

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/harperreed/energycrm/models"
	"github.com/harperreed/energycrm/query"
	"github.com/harperreed/energycrm/store"
)

// RecentDealLimit is how many deals the dashboard lists.
const RecentDealLimit = 5

// StaleDealDays flags open deals with no activity for this long.
const StaleDealDays = 14

type DashboardStats struct {
	// Headline cards
	TotalContacts       int `json:"totalContacts"`
	ActiveCompanies     int `json:"activeCompanies"`
	OpenDeals           int `json:"openDeals"`
	ActivitiesThisMonth int `json:"activitiesThisMonth"`

	// Pipeline figures
	TotalValue   float64 `json:"totalValue"`
	AverageValue float64 `json:"averageValue"`
	WinRate      float64 `json:"winRate"`

	PipelineByStage []PipelineStageStats `json:"pipelineByStage"`
	RecentDeals     []RecentDeal         `json:"recentDeals"`

	// Needs attention
	StaleDeals []StaleDeal `json:"staleDeals,omitempty"`
}

type PipelineStageStats struct {
	Stage models.Stage `json:"stage"`
	Count int          `json:"count"`
	Value float64      `json:"value"`
}

type RecentDeal struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Stage       models.Stage `json:"stage"`
	Company     string       `json:"company"`
	Contact     string       `json:"contact"`
	Value       float64      `json:"value"`
	Probability int          `json:"probability"`
}

type StaleDeal struct {
	Name      string `json:"name"`
	DaysSince int    `json:"daysSince"`
}

// GenerateDashboardStats computes the dashboard for s as of now.
func GenerateDashboardStats(s store.State, now time.Time) *DashboardStats {
	deals := query.ComputeDealStats(s.Deals)
	stats := &DashboardStats{
		TotalContacts:   len(s.Contacts),
		ActiveCompanies: query.ComputeCompanyStats(s.Companies).ActiveCount,
		OpenDeals:       deals.OpenCount,
		TotalValue:      deals.PipelineValue,
		AverageValue:    math.Round(deals.AverageValue),
		WinRate:         deals.WinRate,
	}

	// Same calendar month and year as now, in now's location.
	for _, a := range s.Activities {
		d := a.Date.In(now.Location())
		if d.Year() == now.Year() && d.Month() == now.Month() {
			stats.ActivitiesThisMonth++
		}
	}

	byStage := map[models.Stage]PipelineStageStats{}
	for _, d := range s.Deals {
		ps := byStage[d.Stage]
		ps.Stage = d.Stage
		ps.Count++
		ps.Value += d.Value
		byStage[d.Stage] = ps
	}
	for _, stage := range models.Stages {
		ps := byStage[stage]
		ps.Stage = stage
		stats.PipelineByStage = append(stats.PipelineByStage, ps)
	}

	recent := slices.Clone(s.Deals)
	slices.SortStableFunc(recent, func(a, b models.Deal) int {
		return b.CreatedDate.Compare(a.CreatedDate)
	})
	for _, d := range recent[:min(len(recent), RecentDealLimit)] {
		stats.RecentDeals = append(stats.RecentDeals, RecentDeal{
			ID:          d.ID,
			Name:        d.Name,
			Stage:       d.Stage,
			Company:     query.CompanyName(s, d.CompanyID),
			Contact:     query.ContactName(s, d.ContactID),
			Value:       d.Value,
			Probability: d.Probability,
		})
	}

	for _, d := range s.Deals {
		if d.Stage.IsClosed() {
			continue
		}
		last := d.CreatedDate
		if d.LastActivityDate != nil {
			last = *d.LastActivityDate
		}
		daysSince := int(now.Sub(last).Hours() / 24)
		if daysSince > StaleDealDays {
			stats.StaleDeals = append(stats.StaleDeals, StaleDeal{Name: d.Name, DaysSince: daysSince})
		}
	}
	slices.SortStableFunc(stats.StaleDeals, func(a, b StaleDeal) int {
		return cmp.Compare(b.DaysSince, a.DaysSince)
	})

	return stats
}

func RenderDashboard(stats *DashboardStats) string {
	var out strings.Builder

	// Header
	out.WriteString("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
	out.WriteString("  ENERGY CRM DASHBOARD\n")
	out.WriteString("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n\n")

	out.WriteString("OVERVIEW\n")
	out.WriteString(fmt.Sprintf("  👥 %d contacts  🏢 %d active companies  💼 %d open deals  📅 %d activities this month\n\n",
		stats.TotalContacts, stats.ActiveCompanies, stats.OpenDeals, stats.ActivitiesThisMonth))

	out.WriteString("PIPELINE\n")
	out.WriteString(fmt.Sprintf("  Total value   %s\n", Money(stats.TotalValue)))
	out.WriteString(fmt.Sprintf("  Average deal  %s\n", Money(stats.AverageValue)))
	out.WriteString(fmt.Sprintf("  Win rate      %.0f%%\n\n", math.Round(stats.WinRate)))
	renderPipeline(&out, stats.PipelineByStage)
	out.WriteString("\n")

	out.WriteString("RECENT DEALS\n")
	if len(stats.RecentDeals) == 0 {
		out.WriteString("  (none)\n")
	}
	for _, d := range stats.RecentDeals {
		out.WriteString(fmt.Sprintf("  %-34s %-12s %14s  %3d%%\n", truncate(d.Name, 34), d.Stage.Label(), Money(d.Value), d.Probability))
		out.WriteString(fmt.Sprintf("    %s • %s\n", d.Company, d.Contact))
	}

	if len(stats.StaleDeals) > 0 {
		out.WriteString("\nNEEDS ATTENTION\n")
		out.WriteString(fmt.Sprintf("  ⚠️  %d open deals - no activity in %d+ days\n", len(stats.StaleDeals), StaleDealDays))
	}

	return out.String()
}

func renderPipeline(out *strings.Builder, pipeline []PipelineStageStats) {
	// Find max count for scaling
	maxCount := 0
	for _, ps := range pipeline {
		maxCount = max(maxCount, ps.Count)
	}
	if maxCount == 0 {
		maxCount = 1
	}

	for _, ps := range pipeline {
		if ps.Count == 0 {
			continue
		}
		barLength := (ps.Count * 10) / maxCount
		bar := strings.Repeat("█", barLength) + strings.Repeat("░", 10-barLength)
		out.WriteString(fmt.Sprintf("  %-16s %s  %2d  %s\n", ps.Stage.Label(), bar, ps.Count, Money(ps.Value)))
	}
}

// Money formats a dollar amount with thousands separators.
func Money(v float64) string {
	return "$" + humanize.Commaf(math.Round(v*100)/100)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// ABOUTME: Aggregate figures shown above the deal and company lists
// ABOUTME: Also resolves the contacts and deals that belong to a company
package query

import (
	"github.com/harperreed/energycrm/models"
	"github.com/harperreed/energycrm/store"
)

type DealStats struct {
	Count         int     `json:"count"`
	PipelineValue float64 `json:"pipelineValue"`
	AverageValue  float64 `json:"averageValue"`
	OpenCount     int     `json:"openCount"`
	WonCount      int     `json:"wonCount"`
	// WinRate is a percentage in [0,100]; zero when there are no deals.
	WinRate float64 `json:"winRate"`
}

func ComputeDealStats(deals []models.Deal) DealStats {
	st := DealStats{Count: len(deals)}
	for _, d := range deals {
		st.PipelineValue += d.Value
		if !d.Stage.IsClosed() {
			st.OpenCount++
		}
		if d.Stage == models.StageClosedWon {
			st.WonCount++
		}
	}
	if st.Count > 0 {
		st.AverageValue = st.PipelineValue / float64(st.Count)
		st.WinRate = float64(st.WonCount) / float64(st.Count) * 100
	}
	return st
}

type CompanyStats struct {
	Count          int     `json:"count"`
	ActiveCount    int     `json:"activeCount"`
	TotalRevenue   float64 `json:"totalRevenue"`
	AverageRevenue float64 `json:"averageRevenue"`
}

func ComputeCompanyStats(companies []models.Company) CompanyStats {
	st := CompanyStats{Count: len(companies)}
	for _, c := range companies {
		st.TotalRevenue += revenue(c)
		if c.RelationshipStatus == models.RelationshipActive {
			st.ActiveCount++
		}
	}
	if st.Count > 0 {
		st.AverageRevenue = st.TotalRevenue / float64(st.Count)
	}
	return st
}

// CompanyContacts returns the contacts whose companyId is id.
func CompanyContacts(s store.State, id string) []models.Contact {
	out := []models.Contact{}
	for _, c := range s.Contacts {
		if c.CompanyID == id {
			out = append(out, c)
		}
	}
	return out
}

// CompanyDeals returns the deals whose companyId is id.
func CompanyDeals(s store.State, id string) []models.Deal {
	out := []models.Deal{}
	for _, d := range s.Deals {
		if d.CompanyID == id {
			out = append(out, d)
		}
	}
	return out
}

// CompanyDealValue sums the value of every deal of the company.
func CompanyDealValue(s store.State, id string) float64 {
	var total float64
	for _, d := range CompanyDeals(s, id) {
		total += d.Value
	}
	return total
}

// TotalRecords counts contacts, companies, deals and activities. Users are
// not included.
func TotalRecords(s store.State) int {
	return len(s.Contacts) + len(s.Companies) + len(s.Deals) + len(s.Activities)
}

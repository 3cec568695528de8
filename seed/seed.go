// ABOUTME: Bundled starter dataset used to populate an empty store
// ABOUTME: Plausible energy-sector users, companies, contacts, deals and activities
package seed

import (
	"time"

	"github.com/harperreed/energycrm/models"
	"github.com/harperreed/energycrm/store"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func at(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
}

func ptr[T any](v T) *T { return &v }

// Users returns the seed users. The first is the default current user.
func Users() []models.User {
	return []models.User{
		{ID: "u1", Name: "Harry Supasella", Email: "harry@gridline.energy", Role: models.RoleSalesManager, Territory: "Southwest", Active: true, LastLogin: ptr(at(2025, 1, 14, 8, 5))},
		{ID: "u2", Name: "Priya Natarajan", Email: "priya@gridline.energy", Role: models.RoleSalesRep, Territory: "Texas", Active: true},
		{ID: "u3", Name: "Marcus Bell", Email: "marcus@gridline.energy", Role: models.RoleBusinessDev, Territory: "Northeast", Active: true},
		{ID: "u4", Name: "Lena Kowalski", Email: "lena@gridline.energy", Role: models.RoleSalesRep, Territory: "Midwest", Active: false},
	}
}

func Companies() []models.Company {
	return []models.Company{
		{ID: "c1", Name: "Sonoran Sun Developers", Type: models.CompanyDeveloper, IndustrySegment: models.SegmentSolar,
			Location: models.Location{City: "Phoenix", State: "AZ", Country: "USA"}, Territory: "Southwest", Size: models.SizeLarge,
			Revenue: ptr(420000000.0), PrimaryContactID: "p1", RelationshipStatus: models.RelationshipActive,
			CreatedDate: day(2024, 3, 2), LastContactDate: ptr(day(2025, 1, 9))},
		{ID: "c2", Name: "Gulf Coast Power & Light", Type: models.CompanyUtility, IndustrySegment: models.SegmentGrid,
			Location: models.Location{City: "Houston", State: "TX", Country: "USA"}, Territory: "Texas", Size: models.SizeEnterprise,
			Revenue: ptr(6100000000.0), PrimaryContactID: "p2", RelationshipStatus: models.RelationshipActive,
			CreatedDate: day(2024, 1, 18), LastContactDate: ptr(day(2025, 1, 6))},
		{ID: "c3", Name: "Atlantic Offshore Wind", Type: models.CompanyDeveloper, IndustrySegment: models.SegmentWind,
			Location: models.Location{City: "Boston", State: "MA", Country: "USA"}, Territory: "Northeast", Size: models.SizeLarge,
			Revenue: ptr(980000000.0), PrimaryContactID: "p3", RelationshipStatus: models.RelationshipProspect,
			CreatedDate: day(2024, 6, 11)},
		{ID: "c4", Name: "Prairie Storage Systems", Type: models.CompanyManufacturer, IndustrySegment: models.SegmentStorage,
			Location: models.Location{City: "Des Moines", State: "IA", Country: "USA"}, Territory: "Midwest", Size: models.SizeMedium,
			RelationshipStatus: models.RelationshipInactive, CreatedDate: day(2024, 8, 27)},
		{ID: "c5", Name: "Permian Midstream Partners", Type: models.CompanyEPC, IndustrySegment: models.SegmentOilGas,
			Location: models.Location{City: "Midland", State: "TX", Country: "USA"}, Territory: "Texas", Size: models.SizeLarge,
			Revenue: ptr(1500000000.0), RelationshipStatus: models.RelationshipCompetitor, CreatedDate: day(2024, 9, 3)},
	}
}

func Contacts() []models.Contact {
	return []models.Contact{
		{ID: "p1", Name: "Rosa Delgado", Title: "VP Project Development", Email: "rdelgado@sonoransun.com", Phone: "+1 602 555 0142",
			CompanyID: "c1", Location: models.Location{City: "Phoenix", State: "AZ", Country: "USA"}, Territory: "Southwest",
			AssignedUserID: "u1", Status: models.ContactActive, CreatedDate: day(2024, 3, 2), LastContactDate: ptr(day(2025, 1, 9)),
			Notes: "Prefers morning calls. Owns interconnection timeline."},
		{ID: "p2", Name: "Wesley Grant", Title: "Director of Procurement", Email: "wgrant@gcpl.com", Phone: "+1 713 555 0199",
			CompanyID: "c2", Location: models.Location{City: "Houston", State: "TX", Country: "USA"}, Territory: "Texas",
			AssignedUserID: "u2", Status: models.ContactActive, CreatedDate: day(2024, 1, 18), LastContactDate: ptr(day(2025, 1, 6))},
		{ID: "p3", Name: "Hannah Lindqvist", Title: "Chief Technical Officer", Email: "hannah@atlanticoffshore.com", Phone: "+1 617 555 0107",
			CompanyID: "c3", Location: models.Location{City: "Boston", State: "MA", Country: "USA"}, Territory: "Northeast",
			AssignedUserID: "u3", Status: models.ContactActive, CreatedDate: day(2024, 6, 11)},
		{ID: "p4", Name: "Dale Hoffman", Title: "Operations Manager", Email: "dhoffman@prairiestorage.com", Phone: "+1 515 555 0163",
			CompanyID: "c4", Location: models.Location{City: "Des Moines", State: "IA", Country: "USA"}, Territory: "Midwest",
			AssignedUserID: "u4", Status: models.ContactInactive, CreatedDate: day(2024, 8, 27)},
		{ID: "p5", Name: "Carla Mendes", Title: "Energy Manager", Email: "cmendes@gcpl.com", Phone: "+1 713 555 0121",
			CompanyID: "c2", Location: models.Location{City: "Austin", State: "TX", Country: "USA"}, Territory: "Texas",
			AssignedUserID: "u2", Status: models.ContactDoNotContact, CreatedDate: day(2024, 10, 2),
			Notes: "Asked to route all requests through procurement."},
	}
}

func Deals() []models.Deal {
	return []models.Deal{
		{ID: "d1", Name: "Mesa Verde 200MW Solar", CompanyID: "c1", ContactID: "p1", ProjectType: models.ProjectSolarUtility,
			Capacity: ptr(200.0), Location: models.Location{City: "Buckeye", State: "AZ", Country: "USA"},
			Value: 18500000, Probability: 60, Stage: models.StageProposal, CloseDate: day(2025, 4, 30),
			AssignedUserID: "u1", CreatedDate: day(2024, 9, 12), LastActivityDate: ptr(day(2025, 1, 9))},
		{ID: "d2", Name: "Substation Modernization Phase II", CompanyID: "c2", ContactID: "p2", ProjectType: models.ProjectGridInfrastructure,
			Location: models.Location{City: "Houston", State: "TX", Country: "USA"},
			Value: 7200000, Probability: 80, Stage: models.StageNegotiation, CloseDate: day(2025, 2, 28),
			AssignedUserID: "u2", CreatedDate: day(2024, 7, 1), LastActivityDate: ptr(day(2025, 1, 6))},
		{ID: "d3", Name: "Cape Array Foundations", CompanyID: "c3", ContactID: "p3", ProjectType: models.ProjectWindOffshore,
			Capacity: ptr(800.0), Location: models.Location{City: "New Bedford", State: "MA", Country: "USA"},
			Value: 42000000, Probability: 20, Stage: models.StageQualification, CloseDate: day(2025, 11, 15),
			AssignedUserID: "u3", CreatedDate: day(2024, 11, 20)},
		{ID: "d4", Name: "Grid-Scale Battery Pilot", CompanyID: "c4", ContactID: "p4", ProjectType: models.ProjectEnergyStorage,
			Capacity: ptr(50.0), Location: models.Location{City: "Ames", State: "IA", Country: "USA"},
			Value: 3100000, Probability: 0, Stage: models.StageClosedLost, CloseDate: day(2024, 12, 1),
			AssignedUserID: "u4", CreatedDate: day(2024, 8, 30), Notes: "Lost on price to incumbent vendor."},
		{ID: "d5", Name: "Rooftop Portfolio Retrofit", CompanyID: "c1", ContactID: "p1", ProjectType: models.ProjectSolarCommercial,
			Capacity: ptr(12.5), Location: models.Location{City: "Tempe", State: "AZ", Country: "USA"},
			Value: 2400000, Probability: 100, Stage: models.StageClosedWon, CloseDate: day(2024, 12, 18),
			AssignedUserID: "u1", CreatedDate: day(2024, 5, 14), LastActivityDate: ptr(day(2024, 12, 18))},
		{ID: "d6", Name: "Efficiency Audit Program", CompanyID: "c2", ContactID: "p5", ProjectType: models.ProjectEnergyEfficiency,
			Location: models.Location{City: "Austin", State: "TX", Country: "USA"},
			Value: 650000, Probability: 10, Stage: models.StageLead, CloseDate: day(2025, 8, 1),
			AssignedUserID: "u2", CreatedDate: day(2025, 1, 3)},
	}
}

func Activities() []models.Activity {
	return []models.Activity{
		{ID: "a1", Type: models.ActivityMeeting, Subject: "Proposal walkthrough", Description: "Reviewed EPC pricing and interconnection schedule with Rosa.",
			ContactID: "p1", DealID: "d1", UserID: "u1", Date: at(2025, 1, 9, 15, 0), Duration: ptr(60), Outcome: models.OutcomePositive,
			NextSteps: "Send revised module pricing", FollowUpDate: ptr(day(2025, 1, 16)), CreatedDate: at(2025, 1, 9, 16, 10)},
		{ID: "a2", Type: models.ActivityContractDiscussion, Subject: "Redline review", Description: "Walked through liquidated damages clause.",
			ContactID: "p2", DealID: "d2", UserID: "u2", Date: at(2025, 1, 6, 10, 30), Duration: ptr(45), Outcome: models.OutcomeNeutral,
			NextSteps: "Legal to respond on LD cap", CreatedDate: at(2025, 1, 6, 11, 20)},
		{ID: "a3", Type: models.ActivityPhoneCall, Subject: "Intro call", Description: "Discovery call on foundation supply needs.",
			ContactID: "p3", DealID: "d3", UserID: "u3", Date: at(2024, 11, 20, 14, 0), Duration: ptr(30), Outcome: models.OutcomePositive,
			CreatedDate: at(2024, 11, 20, 14, 40)},
		{ID: "a4", Type: models.ActivityEmail, Subject: "Loss debrief", Description: "Customer selected incumbent vendor on price.",
			ContactID: "p4", DealID: "d4", UserID: "u4", Date: at(2024, 12, 2, 9, 0), Outcome: models.OutcomeNegative,
			CreatedDate: at(2024, 12, 2, 9, 5)},
		{ID: "a5", Type: models.ActivitySiteVisit, Subject: "Buckeye site walk", Description: "Walked the parcel with the civil engineer.",
			ContactID: "p1", DealID: "d1", UserID: "u1", Date: at(2024, 12, 12, 8, 0), Duration: ptr(180), Outcome: models.OutcomePositive,
			CreatedDate: at(2024, 12, 12, 13, 0)},
	}
}

// Partial returns the full seed dataset as a load_data payload with the
// first seed user selected as current user.
func Partial() store.Partial {
	users := Users()
	companies := Companies()
	contacts := Contacts()
	deals := Deals()
	activities := Activities()
	current := users[0]

	return store.Partial{
		Users:       &users,
		Companies:   &companies,
		Contacts:    &contacts,
		Deals:       &deals,
		Activities:  &activities,
		CurrentUser: &current,
	}
}

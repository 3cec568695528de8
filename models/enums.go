// ABOUTME: Fixed value sets for CRM record fields
// ABOUTME: Typed string enums with validation and ordered value lists
package models

type Role string

const (
	RoleSalesRep     Role = "sales_rep"
	RoleSalesManager Role = "sales_manager"
	RoleBusinessDev  Role = "business_dev"
)

var Roles = []Role{RoleSalesRep, RoleSalesManager, RoleBusinessDev}

func (r Role) Valid() bool { return contains(Roles, r) }

type CompanyType string

const (
	CompanyUtility      CompanyType = "utility"
	CompanyDeveloper    CompanyType = "developer"
	CompanyEPC          CompanyType = "epc"
	CompanyManufacturer CompanyType = "manufacturer"
	CompanyConsultant   CompanyType = "consultant"
	CompanyGovernment   CompanyType = "government"
)

var CompanyTypes = []CompanyType{
	CompanyUtility, CompanyDeveloper, CompanyEPC,
	CompanyManufacturer, CompanyConsultant, CompanyGovernment,
}

func (t CompanyType) Valid() bool { return contains(CompanyTypes, t) }

type IndustrySegment string

const (
	SegmentSolar      IndustrySegment = "solar"
	SegmentWind       IndustrySegment = "wind"
	SegmentOilGas     IndustrySegment = "oil_gas"
	SegmentStorage    IndustrySegment = "storage"
	SegmentGrid       IndustrySegment = "grid"
	SegmentEfficiency IndustrySegment = "efficiency"
)

var IndustrySegments = []IndustrySegment{
	SegmentSolar, SegmentWind, SegmentOilGas,
	SegmentStorage, SegmentGrid, SegmentEfficiency,
}

func (s IndustrySegment) Valid() bool { return contains(IndustrySegments, s) }

type CompanySize string

const (
	SizeSmall      CompanySize = "small"
	SizeMedium     CompanySize = "medium"
	SizeLarge      CompanySize = "large"
	SizeEnterprise CompanySize = "enterprise"
)

var CompanySizes = []CompanySize{SizeSmall, SizeMedium, SizeLarge, SizeEnterprise}

func (s CompanySize) Valid() bool { return contains(CompanySizes, s) }

type RelationshipStatus string

const (
	RelationshipProspect   RelationshipStatus = "prospect"
	RelationshipActive     RelationshipStatus = "active"
	RelationshipInactive   RelationshipStatus = "inactive"
	RelationshipCompetitor RelationshipStatus = "competitor"
)

var RelationshipStatuses = []RelationshipStatus{
	RelationshipProspect, RelationshipActive, RelationshipInactive, RelationshipCompetitor,
}

func (s RelationshipStatus) Valid() bool { return contains(RelationshipStatuses, s) }

type ContactStatus string

const (
	ContactActive       ContactStatus = "active"
	ContactInactive     ContactStatus = "inactive"
	ContactDoNotContact ContactStatus = "do_not_contact"
)

var ContactStatuses = []ContactStatus{ContactActive, ContactInactive, ContactDoNotContact}

func (s ContactStatus) Valid() bool { return contains(ContactStatuses, s) }

type ProjectType string

const (
	ProjectSolarResidential   ProjectType = "solar_residential"
	ProjectSolarCommercial    ProjectType = "solar_commercial"
	ProjectSolarUtility       ProjectType = "solar_utility"
	ProjectWindOnshore        ProjectType = "wind_onshore"
	ProjectWindOffshore       ProjectType = "wind_offshore"
	ProjectOilGasUpstream     ProjectType = "oil_gas_upstream"
	ProjectOilGasMidstream    ProjectType = "oil_gas_midstream"
	ProjectOilGasDownstream   ProjectType = "oil_gas_downstream"
	ProjectEnergyStorage      ProjectType = "energy_storage"
	ProjectGridInfrastructure ProjectType = "grid_infrastructure"
	ProjectEnergyEfficiency   ProjectType = "energy_efficiency"
)

var ProjectTypes = []ProjectType{
	ProjectSolarResidential, ProjectSolarCommercial, ProjectSolarUtility,
	ProjectWindOnshore, ProjectWindOffshore,
	ProjectOilGasUpstream, ProjectOilGasMidstream, ProjectOilGasDownstream,
	ProjectEnergyStorage, ProjectGridInfrastructure, ProjectEnergyEfficiency,
}

func (p ProjectType) Valid() bool { return contains(ProjectTypes, p) }

type ActivityType string

const (
	ActivityPhoneCall          ActivityType = "phone_call"
	ActivityEmail              ActivityType = "email"
	ActivityMeeting            ActivityType = "meeting"
	ActivitySiteVisit          ActivityType = "site_visit"
	ActivityProposalSubmission ActivityType = "proposal_submission"
	ActivityTechnicalReview    ActivityType = "technical_review"
	ActivityContractDiscussion ActivityType = "contract_discussion"
)

var ActivityTypes = []ActivityType{
	ActivityPhoneCall, ActivityEmail, ActivityMeeting, ActivitySiteVisit,
	ActivityProposalSubmission, ActivityTechnicalReview, ActivityContractDiscussion,
}

func (t ActivityType) Valid() bool { return contains(ActivityTypes, t) }

type Outcome string

const (
	OutcomePositive Outcome = "positive"
	OutcomeNeutral  Outcome = "neutral"
	OutcomeNegative Outcome = "negative"
)

var Outcomes = []Outcome{OutcomePositive, OutcomeNeutral, OutcomeNegative}

func (o Outcome) Valid() bool { return contains(Outcomes, o) }

func contains[T comparable](set []T, v T) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

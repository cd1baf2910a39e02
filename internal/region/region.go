package region

// Site identifies one of the five vendor deployments. The values double as the
// keys of the persisted snapshot document, so they must not change.
type Site string

const (
	SiteCN Site = "china"
	SiteUS Site = "US"
	SiteHK Site = "HK"
	SiteJP Site = "JP"
	SiteSG Site = "SG"
)

// Sites returns the fixed site order used for snapshots and reports.
func Sites() []Site {
	return []Site{SiteCN, SiteUS, SiteHK, SiteJP, SiteSG}
}

// Info describes one region. Exactly one of the five flags is set; the
// predeclared values below are the only ones that should circulate.
type Info struct {
	IsCN            bool
	IsUS            bool
	IsHK            bool
	IsJP            bool
	IsSG            bool
	IsInternational bool
}

var (
	CN = Info{IsCN: true}
	US = Info{IsUS: true, IsInternational: true}
	HK = Info{IsHK: true, IsInternational: true}
	JP = Info{IsJP: true, IsInternational: true}
	SG = Info{IsSG: true, IsInternational: true}
)

// Site maps the region onto its catalog site key. An unset Info falls back to
// the US site, matching the upstream behaviour for unknown regions.
func (i Info) Site() Site {
	switch {
	case i.IsCN:
		return SiteCN
	case i.IsUS:
		return SiteUS
	case i.IsHK:
		return SiteHK
	case i.IsJP:
		return SiteJP
	case i.IsSG:
		return SiteSG
	}
	return SiteUS
}

// FromSite returns the region descriptor for a site key.
func FromSite(site Site) Info {
	switch site {
	case SiteCN:
		return CN
	case SiteHK:
		return HK
	case SiteJP:
		return JP
	case SiteSG:
		return SG
	}
	return US
}

// Assistant ids sent as http_common_info.aid on submit requests.
const (
	AssistantIDCN   = 513695
	AssistantIDIntl = 513641
)

// AssistantID returns the vendor assistant id for the region.
func AssistantID(i Info) int {
	if i.IsCN {
		return AssistantIDCN
	}
	return AssistantIDIntl
}

// Name returns the human-readable site name used in validation messages.
func Name(i Info) string {
	switch {
	case i.IsCN:
		return "the CN site"
	case i.IsUS:
		return "the US site"
	case i.IsHK:
		return "the HK site"
	case i.IsJP:
		return "the JP site"
	case i.IsSG:
		return "the SG site"
	}
	return "the international site"
}

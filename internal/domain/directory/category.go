package directory

import "strings"

// Company types recognised by the keyword table.
const (
	CompanyTypeTech       = "Tech"
	CompanyTypeFinance    = "Finance"
	CompanyTypeHealthcare = "Healthcare"
	CompanyTypeEducation  = "Education"
)

// companyTypeKeywords maps a company type to the lower-case substrings that classify a
// company name into it. It is the only copy of this table.
var companyTypeKeywords = map[string][]string{
	CompanyTypeTech:       {"google", "microsoft", "amazon", "adobe", "flipkart", "swiggy", "paytm", "zomato"},
	CompanyTypeFinance:    {"deloitte", "goldman", "jpmorgan", "citi"},
	CompanyTypeHealthcare: {"apollo", "fortis", "max", "manipal"},
	CompanyTypeEducation:  {"byju", "unacademy", "vedantu"},
}

// CompanyTypes lists the recognised company types in display order.
func CompanyTypes() []string {
	return []string{CompanyTypeTech, CompanyTypeFinance, CompanyTypeHealthcare, CompanyTypeEducation}
}

// Keywords returns a copy of the keyword list for a company type. ok is false for an
// unrecognised type, which callers treat as "no constraint".
func Keywords(companyType string) (keywords []string, ok bool) {
	kw, ok := companyTypeKeywords[companyType]
	if !ok {
		return nil, false
	}
	return append([]string(nil), kw...), true
}

// InCompanyType reports whether company falls into a recognised company type.
// An empty company never matches.
func InCompanyType(company, companyType string) bool {
	if company == "" {
		return false
	}
	kw, ok := companyTypeKeywords[companyType]
	if !ok {
		return false
	}
	lc := strings.ToLower(company)
	for _, k := range kw {
		if strings.Contains(lc, k) {
			return true
		}
	}
	return false
}

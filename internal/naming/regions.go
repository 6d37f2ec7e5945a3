package naming

import "strings"

// regionCodes maps normalized Azure region names to short codes.
var regionCodes = map[string]string{
	"westus":             "wus",
	"westus2":            "wus2",
	"westus3":            "wus3",
	"eastus":             "eus",
	"eastus2":            "eus2",
	"centralus":          "cus",
	"northcentralus":     "ncus",
	"southcentralus":     "scus",
	"westcentralus":      "wcus",
	"canadacentral":      "cac",
	"canadaeast":         "cae",
	"brazilsouth":        "brs",
	"northeurope":        "neu",
	"westeurope":         "weu",
	"uksouth":            "uks",
	"ukwest":             "ukw",
	"francecentral":      "frc",
	"francesouth":        "frs",
	"germanywestcentral": "gwc",
	"norwayeast":         "noe",
	"switzerlandnorth":   "chn",
	"uaenorth":           "uan",
	"southafricanorth":   "san",
	"australiaeast":      "aue",
	"australiasoutheast": "ause",
	"australiacentral":   "auc",
	"eastasia":           "ea",
	"southeastasia":      "sea",
	"japaneast":          "jpe",
	"japanwest":          "jpw",
	"koreacentral":       "krc",
	"koreasouth":         "krs",
	"centralindia":       "inc",
	"southindia":         "ins",
	"westindia":          "inw",
}

// RegionCode converts an Azure region name to its short code. Input is
// normalized by lowercasing and stripping spaces and hyphens, so "West US 2"
// and "westus2" both yield "wus2". Unknown regions fall back to the first
// four characters of the normalized input rather than failing.
func RegionCode(location string) string {
	normalized := strings.ToLower(location)
	normalized = strings.ReplaceAll(normalized, " ", "")
	normalized = strings.ReplaceAll(normalized, "-", "")

	if code, ok := regionCodes[normalized]; ok {
		return code
	}
	if len(normalized) > 4 {
		return normalized[:4]
	}
	return normalized
}

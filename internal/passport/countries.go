package passport

// alpha3ToAlpha2 maps ICAO/ISO 3166-1 alpha-3 codes to alpha-2. It includes the
// non-standard codes some issuers print in the MRZ.
var alpha3ToAlpha2 = map[string]string{
	"AFG": "AF", "ALB": "AL", "DZA": "DZ", "AND": "AD", "AGO": "AO", "ATG": "AG", "ARG": "AR",
	"ARM": "AM", "AUS": "AU", "AUT": "AT", "AZE": "AZ", "BHS": "BS", "BHR": "BH", "BGD": "BD",
	"BRB": "BB", "BLR": "BY", "BEL": "BE", "BLZ": "BZ", "BEN": "BJ", "BTN": "BT", "BOL": "BO",
	"BIH": "BA", "BWA": "BW", "BRA": "BR", "BRN": "BN", "BGR": "BG", "BFA": "BF", "BDI": "BI",
	"KHM": "KH", "CMR": "CM", "CAN": "CA", "CPV": "CV", "CAF": "CF", "TCD": "TD", "CHL": "CL",
	"CHN": "CN", "COL": "CO", "COM": "KM", "COG": "CG", "COD": "CD", "CRI": "CR", "CIV": "CI",
	"HRV": "HR", "CUB": "CU", "CYP": "CY", "CZE": "CZ", "DNK": "DK", "DJI": "DJ", "DMA": "DM",
	"DOM": "DO", "ECU": "EC", "EGY": "EG", "SLV": "SV", "GNQ": "GQ", "ERI": "ER", "EST": "EE",
	"ETH": "ET", "FJI": "FJ", "FIN": "FI", "FRA": "FR", "GAB": "GA", "GMB": "GM", "GEO": "GE",
	"DEU": "DE", "GHA": "GH", "GRC": "GR", "GRD": "GD", "GTM": "GT", "GIN": "GN", "GNB": "GW",
	"GUY": "GY", "HTI": "HT", "HND": "HN", "HUN": "HU", "ISL": "IS", "IND": "IN", "IDN": "ID",
	"IRN": "IR", "IRQ": "IQ", "IRL": "IE", "ISR": "IL", "ITA": "IT", "JAM": "JM", "JPN": "JP",
	"JOR": "JO", "KAZ": "KZ", "KEN": "KE", "KIR": "KI", "PRK": "KP", "KOR": "KR", "KWT": "KW",
	"KGZ": "KG", "LAO": "LA", "LVA": "LV", "LBN": "LB", "LSO": "LS", "LBR": "LR", "LBY": "LY",
	"LIE": "LI", "LTU": "LT", "LUX": "LU", "MKD": "MK", "MDG": "MG", "MWI": "MW", "MYS": "MY",
	"MDV": "MV", "MLI": "ML", "MLT": "MT", "MHL": "MH", "MRT": "MR", "MUS": "MU", "MEX": "MX",
	"FSM": "FM", "MDA": "MD", "MCO": "MC", "MNG": "MN", "MNE": "ME", "MAR": "MA", "MOZ": "MZ",
	"MMR": "MM", "NAM": "NA", "NRU": "NR", "NPL": "NP", "NLD": "NL", "NZL": "NZ", "NIC": "NI",
	"NER": "NE", "NGA": "NG", "NOR": "NO", "OMN": "OM", "PAK": "PK", "PLW": "PW", "PAN": "PA",
	"PNG": "PG", "PRY": "PY", "PER": "PE", "PHL": "PH", "POL": "PL", "PRT": "PT", "QAT": "QA",
	"ROU": "RO", "RUS": "RU", "RWA": "RW", "KNA": "KN", "LCA": "LC", "VCT": "VC", "WSM": "WS",
	"SMR": "SM", "STP": "ST", "SAU": "SA", "SEN": "SN", "SRB": "RS", "SYC": "SC", "SLE": "SL",
	"SGP": "SG", "SVK": "SK", "SVN": "SI", "SLB": "SB", "SOM": "SO", "ZAF": "ZA", "SSD": "SS",
	"ESP": "ES", "LKA": "LK", "SDN": "SD", "SUR": "SR", "SWE": "SE", "CHE": "CH", "SYR": "SY",
	"TWN": "TW", "TJK": "TJ", "TZA": "TZ", "THA": "TH", "TLS": "TL", "TGO": "TG", "TON": "TO",
	"TTO": "TT", "TUN": "TN", "TUR": "TR", "TKM": "TM", "TUV": "TV", "UGA": "UG", "UKR": "UA",
	"ARE": "AE", "GBR": "GB", "USA": "US", "URY": "UY", "UZB": "UZ", "VUT": "VU", "VEN": "VE",
	"VNM": "VN", "YEM": "YE", "ZMB": "ZM", "ZWE": "ZW",

	"D": "DE",
	"GBD": "GB", "GBN": "GB", "GBO": "GB", "GBS": "GB",
}

// countryNames maps country names and nationality adjectives, as printed or
// as returned by extraction providers, to alpha-2. Keys carry no diacritics.
var countryNames = map[string]string{
	"UNITED STATES":              "US",
	"UNITED STATES OF AMERICA":   "US",
	"USA":                        "US",
	"AMERICA":                    "US",
	"AMERICAN":                   "US",
	"UNITED KINGDOM":             "GB",
	"GREAT BRITAIN":              "GB",
	"BRITAIN":                    "GB",
	"ENGLAND":                    "GB",
	"UK":                         "GB",
	"BRITISH":                    "GB",
	"FRANCE":                     "FR",
	"FRENCH":                     "FR",
	"FRANCAISE":                  "FR",
	"GERMANY":                    "DE",
	"GERMAN":                     "DE",
	"DEUTSCHLAND":                "DE",
	"JAPAN":                      "JP",
	"JAPANESE":                   "JP",
	"CHINA":                      "CN",
	"CHINESE":                    "CN",
	"PEOPLE'S REPUBLIC OF CHINA": "CN",
	"AUSTRALIA":                  "AU",
	"AUSTRALIAN":                 "AU",
	"CANADA":                     "CA",
	"CANADIAN":                   "CA",
	"INDIA":                      "IN",
	"INDIAN":                     "IN",
	"INDONESIA":                  "ID",
	"INDONESIAN":                 "ID",
	"SINGAPORE":                  "SG",
	"SINGAPOREAN":                "SG",
	"MALAYSIA":                   "MY",
	"MALAYSIAN":                  "MY",
	"THAILAND":                   "TH",
	"THAI":                       "TH",
	"VIETNAM":                    "VN",
	"VIETNAMESE":                 "VN",
	"VIET NAM":                   "VN",
	"PHILIPPINES":                "PH",
	"PHILIPPINE":                 "PH",
	"FILIPINO":                   "PH",
	"SOUTH KOREA":                "KR",
	"KOREA":                      "KR",
	"KOREAN":                     "KR",
	"REPUBLIC OF KOREA":          "KR",
	"TAIWAN":                     "TW",
	"TAIWANESE":                  "TW",
	"HONG KONG":                  "HK",
	"ITALY":                      "IT",
	"ITALIAN":                    "IT",
	"ITALIA":                     "IT",
	"SPAIN":                      "ES",
	"SPANISH":                    "ES",
	"ESPANA":                     "ES",
	"NETHERLANDS":                "NL",
	"DUTCH":                      "NL",
	"HOLLAND":                    "NL",
	"NEDERLAND":                  "NL",
	"BELGIUM":                    "BE",
	"BELGIAN":                    "BE",
	"BELGIQUE":                   "BE",
	"SWITZERLAND":                "CH",
	"SWISS":                      "CH",
	"SCHWEIZ":                    "CH",
	"SUISSE":                     "CH",
	"AUSTRIA":                    "AT",
	"AUSTRIAN":                   "AT",
	"OSTERREICH":                 "AT",
	"SWEDEN":                     "SE",
	"SWEDISH":                    "SE",
	"SVERIGE":                    "SE",
	"NORWAY":                     "NO",
	"NORWEGIAN":                  "NO",
	"NORGE":                      "NO",
	"DENMARK":                    "DK",
	"DANISH":                     "DK",
	"DANMARK":                    "DK",
	"FINLAND":                    "FI",
	"FINNISH":                    "FI",
	"SUOMI":                      "FI",
	"ICELAND":                    "IS",
	"ICELANDIC":                  "IS",
	"IRELAND":                    "IE",
	"IRISH":                      "IE",
	"PORTUGAL":                   "PT",
	"PORTUGUESE":                 "PT",
	"GREECE":                     "GR",
	"GREEK":                      "GR",
	"POLAND":                     "PL",
	"POLISH":                     "PL",
	"POLSKA":                     "PL",
	"RUSSIA":                     "RU",
	"RUSSIAN":                    "RU",
	"RUSSIAN FEDERATION":         "RU",
	"BRAZIL":                     "BR",
	"BRAZILIAN":                  "BR",
	"BRASIL":                     "BR",
	"MEXICO":                     "MX",
	"MEXICAN":                    "MX",
	"ARGENTINA":                  "AR",
	"ARGENTINIAN":                "AR",
	"NEW ZEALAND":                "NZ",
	"SOUTH AFRICA":               "ZA",
	"ISRAEL":                     "IL",
	"ISRAELI":                    "IL",
	"TURKEY":                     "TR",
	"TURKISH":                    "TR",
	"SAUDI ARABIA":               "SA",
	"UNITED ARAB EMIRATES":       "AE",
	"UAE":                        "AE",
	"EMIRATES":                   "AE",
	"EGYPT":                      "EG",
	"EGYPTIAN":                   "EG",
}

package canonical

import "strings"

const carrierLogoDir = "assets/aseguradoras/"

// carrierLogos 键为小写、去重音、去空白后的名称，标点保留。
var carrierLogos = map[string]string{
	"qualitas":                    "Qualitas.png",
	"qualitasseguros":             "Qualitas.png",
	"gnp":                         "GNP.png",
	"gnpseguros":                  "GNP.png",
	"grupnacionalprovincial":      "GNP.png",
	"axa":                         "AXA.png",
	"axaseguros":                  "AXA.png",
	"mapfre":                      "Mapfre.png",
	"hdi":                         "HDI.png",
	"hdiseguros":                  "HDI.png",
	"chubb":                       "Chubb.png",
	"chubbseguros":                "Chubb.png",
	"metlife":                     "MetLife.png",
	"allianz":                     "Allianz.png",
	"banorte":                     "Banorte.png",
	"segurosbanorte":              "Banorte.png",
	"zurich":                      "Zurich.png",
	"afirme":                      "Afirme.png",
	"segurosafirme":               "Afirme.png",
	"ana":                         "ANA.png",
	"anaseguros":                  "ANA.png",
	"atlas":                       "Atlas.png",
	"segurosatlas":                "Atlas.png",
	"inbursa":                     "Inbursa.png",
	"segurosinbursa":              "Inbursa.png",
	"sura":                        "Sura.png",
	"segurossura":                 "Sura.png",
	"gmx":                         "GMX.png",
	"gmxseguros":                  "GMX.png",
	"primeroseguros":              "PrimeroSeguros.png",
	"elpotosi":                    "ElPotosi.png",
	"segurosmonterrey":            "MonterreyNewYorkLife.png",
	"monterreynewyorklife":        "MonterreyNewYorkLife.png",
	"segurosmonterreynewyorklife": "MonterreyNewYorkLife.png",
	"bupa":                        "Bupa.png",
	"planseguro":                  "PlanSeguro.png",
}

// CarrierToLogo 将保险公司名称映射为 logo 路径。
// 已是 http(s):// 或 assets/ 开头的值原样返回；未知名称也原样返回，不丢弃。
func CarrierToLogo(raw string) string {
	value := strings.TrimSpace(raw)
	if IsAbsoluteURL(value) || strings.HasPrefix(value, "assets/") {
		return value
	}
	if file, ok := carrierLogos[looseKey(value)]; ok {
		return carrierLogoDir + file
	}
	return value
}

// Aseguradoras 对列表逐项执行 CarrierToLogo。
func Aseguradoras(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if logo := CarrierToLogo(v); logo != "" {
			out = append(out, logo)
		}
	}
	return out
}

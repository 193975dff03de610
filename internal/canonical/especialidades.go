package canonical

// 规范化后的专业分类。
const (
	EspecialidadVehiculos       = "vehiculos"
	EspecialidadHogarNegocio    = "hogar-negocio"
	EspecialidadSaludAsistencia = "salud-asistencia"
)

// especialidadAliases 键为 NormalizeKey 之后的写法。
var especialidadAliases = map[string]string{
	// 车辆
	"vehiculos":      EspecialidadVehiculos,
	"vehiculo":       EspecialidadVehiculos,
	"auto":           EspecialidadVehiculos,
	"autos":          EspecialidadVehiculos,
	"automovil":      EspecialidadVehiculos,
	"automoviles":    EspecialidadVehiculos,
	"carro":          EspecialidadVehiculos,
	"carros":         EspecialidadVehiculos,
	"coche":          EspecialidadVehiculos,
	"coches":         EspecialidadVehiculos,
	"moto":           EspecialidadVehiculos,
	"motos":          EspecialidadVehiculos,
	"motocicleta":    EspecialidadVehiculos,
	"motocicletas":   EspecialidadVehiculos,
	"flotilla":       EspecialidadVehiculos,
	"flotillas":      EspecialidadVehiculos,
	"seguroauto":     EspecialidadVehiculos,
	"segurodeauto":   EspecialidadVehiculos,
	"segurosdeauto":  EspecialidadVehiculos,
	"segurodeautos":  EspecialidadVehiculos,
	"segurosdeautos": EspecialidadVehiculos,
	"autoseguro":     EspecialidadVehiculos,

	// 家庭与商业
	"hogarnegocio":         EspecialidadHogarNegocio,
	"hogarynegocio":        EspecialidadHogarNegocio,
	"hogarnegocios":        EspecialidadHogarNegocio,
	"hogarynegocios":       EspecialidadHogarNegocio,
	"hogar":                EspecialidadHogarNegocio,
	"casa":                 EspecialidadHogarNegocio,
	"casahabitacion":       EspecialidadHogarNegocio,
	"vivienda":             EspecialidadHogarNegocio,
	"negocio":              EspecialidadHogarNegocio,
	"negocios":             EspecialidadHogarNegocio,
	"empresa":              EspecialidadHogarNegocio,
	"empresas":             EspecialidadHogarNegocio,
	"empresarial":          EspecialidadHogarNegocio,
	"comercio":             EspecialidadHogarNegocio,
	"pyme":                 EspecialidadHogarNegocio,
	"pymes":                EspecialidadHogarNegocio,
	"danos":                EspecialidadHogarNegocio,
	"patrimonial":          EspecialidadHogarNegocio,
	"segurodehogar":        EspecialidadHogarNegocio,
	"segurosdehogar":       EspecialidadHogarNegocio,
	"responsabilidadcivil": EspecialidadHogarNegocio,

	// 健康与救援
	"saludasistencia":      EspecialidadSaludAsistencia,
	"saludyasistencia":     EspecialidadSaludAsistencia,
	"salud":                EspecialidadSaludAsistencia,
	"asistencia":           EspecialidadSaludAsistencia,
	"gmm":                  EspecialidadSaludAsistencia,
	"gastosmedicos":        EspecialidadSaludAsistencia,
	"gastosmedicosmayores": EspecialidadSaludAsistencia,
	"gastosmedicosmenores": EspecialidadSaludAsistencia,
	"medico":               EspecialidadSaludAsistencia,
	"medicos":              EspecialidadSaludAsistencia,
	"vida":                 EspecialidadSaludAsistencia,
	"segurodevida":         EspecialidadSaludAsistencia,
	"accidentes":           EspecialidadSaludAsistencia,
	"accidentespersonales": EspecialidadSaludAsistencia,
	"dental":               EspecialidadSaludAsistencia,
	"asistenciamedica":     EspecialidadSaludAsistencia,
	"asistenciaenviaje":    EspecialidadSaludAsistencia,
	"asistenciaenviajes":   EspecialidadSaludAsistencia,
}

// ToEspecialidadSlug 返回规范化分类，未知值返回 ok=false。
func ToEspecialidadSlug(raw string) (string, bool) {
	slug, ok := especialidadAliases[NormalizeKey(raw)]
	return slug, ok
}

// Especialidades 规范化、丢弃未知值并按首次出现顺序去重。
func Especialidades(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		slug, ok := ToEspecialidadSlug(v)
		if !ok {
			continue
		}
		if _, dup := seen[slug]; dup {
			continue
		}
		seen[slug] = struct{}{}
		out = append(out, slug)
	}
	return out
}

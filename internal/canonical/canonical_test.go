package canonical

import (
	"reflect"
	"testing"
)

func TestNormalizeKeyIsIdempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{"Gastos Médicos Mayores", "HOGAR y Negocio", "  Autos!! ", "salud-asistencia", ""}
	for _, in := range inputs {
		once := NormalizeKey(in)
		if twice := NormalizeKey(once); twice != once {
			t.Fatalf("NormalizeKey not idempotent for %q: %q vs %q", in, once, twice)
		}
	}
	if got := NormalizeKey("Gastos Médicos"); got != "gastosmedicos" {
		t.Fatalf("unexpected key %q", got)
	}
}

func TestToEspecialidadSlug(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"Autos", "CARRO", "vehiculos", "Vehículos"} {
		got, ok := ToEspecialidadSlug(in)
		if !ok || got != EspecialidadVehiculos {
			t.Fatalf("expected %q to map to vehiculos, got %q (%v)", in, got, ok)
		}
	}
	if got, ok := ToEspecialidadSlug("Hogar y Negocio"); !ok || got != EspecialidadHogarNegocio {
		t.Fatalf("expected hogar-negocio, got %q", got)
	}
	if got, ok := ToEspecialidadSlug("salud-asistencia"); !ok || got != EspecialidadSaludAsistencia {
		t.Fatalf("expected canonical slug to map to itself, got %q", got)
	}
	if _, ok := ToEspecialidadSlug("unknown-thing"); ok {
		t.Fatalf("expected unknown value to be unmapped")
	}
}

func TestEspecialidadesDropsUnknownAndDedupes(t *testing.T) {
	t.Parallel()

	got := Especialidades([]string{"autos", "Salud", "carro", "astrología", "GMM"})
	want := []string{EspecialidadVehiculos, EspecialidadSaludAsistencia}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestCarrierToLogo(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"https://x.com/a.png": "https://x.com/a.png",
		"assets/foo.png":      "assets/foo.png",
		"QUALITAS":            "assets/aseguradoras/Qualitas.png",
		"Seguros Monterrey":   "assets/aseguradoras/MonterreyNewYorkLife.png",
		"Unknown Co":          "Unknown Co",
		" A.N.A. ":            "A.N.A.",
	}
	for in, want := range cases {
		if got := CarrierToLogo(in); got != want {
			t.Fatalf("CarrierToLogo(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSlugify(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"José Pérez":            "jose-perez",
		"  --Ana   María!!  ":   "ana-maria",
		"Seguros, S.A. de C.V.": "seguros-s-a-de-c-v",
		"":                      "",
		"¡¡!!":                  "",
	}
	for in, want := range cases {
		if got := Slugify(in); got != want {
			t.Fatalf("Slugify(%q) = %q, want %q", in, got, want)
		}
	}

	long := ""
	for i := 0; i < 30; i++ {
		long += "abcd "
	}
	if got := Slugify(long); len(got) != MaxSlugLength {
		t.Fatalf("expected slug truncated to %d, got %d", MaxSlugLength, len(got))
	}
}

func TestSplitList(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   any
		seps string
		want []string
	}{
		{nil, SepComma, []string{}},
		{"", SepComma, []string{}},
		{"a, b ,,c", SepComma, []string{"a", "b", "c"}},
		{"a|b, c", SepBulk, []string{"a", "b", "c"}},
		{"a|b", SepComma, []string{"a|b"}},
		{"uno\n dos \n\n", SepNewline, []string{"uno", "dos"}},
		{[]any{" x ", "", nil, 3.0}, SepComma, []string{"x", "3"}},
		{[]string{"a", " "}, SepComma, []string{"a"}},
	}
	for i, tc := range cases {
		got := SplitList(tc.in, tc.seps)
		if !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("case %d: expected %v, got %v", i, tc.want, got)
		}
	}
}

func TestParseBool(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"true", " TRUE ", "True"} {
		if !ParseBool(in) {
			t.Fatalf("expected %q to be true", in)
		}
	}
	for _, in := range []string{"1", "yes", "si", "", "false"} {
		if ParseBool(in) {
			t.Fatalf("expected %q to be false", in)
		}
	}
}

func TestSocialLinks(t *testing.T) {
	t.Parallel()

	got := SocialLinks(map[string]string{
		"facebook":  "agente.mx",
		"instagram": "https://instagram.com/agente",
		"tiktok":    "@agente",
		"linkedin":  "",
	})
	if len(got) != 3 {
		t.Fatalf("expected 3 links, got %d: %+v", len(got), got)
	}
	if got[0].URL != "https://facebook.com/agente.mx" {
		t.Fatalf("unexpected facebook url %s", got[0].URL)
	}
	if got[1].URL != "https://instagram.com/agente" {
		t.Fatalf("expected absolute url to pass through, got %s", got[1].URL)
	}
	if got[2].URL != "https://tiktok.com/@agente" {
		t.Fatalf("unexpected tiktok url %s", got[2].URL)
	}
}

func TestParseRedesTextSkipsInvalidLines(t *testing.T) {
	t.Parallel()

	cell := "{\"icon\":\"web\",\"url\":\"https://agente.mx\"}\nnot json\n{\"icon\":\"x\",\"url\":\"https://x.com/a\"}"
	got := ParseRedesText(cell)
	if len(got) != 2 {
		t.Fatalf("expected 2 parsed links, got %d", len(got))
	}
	if got[0].Icon != "web" || got[1].URL != "https://x.com/a" {
		t.Fatalf("unexpected links %+v", got)
	}
}

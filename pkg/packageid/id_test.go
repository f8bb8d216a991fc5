package packageid

import (
	"strings"
	"testing"
)

func gccRelease() Settings {
	return Settings{
		SettingOS:              "Linux",
		SettingArch:            "x86_64",
		SettingCompiler:        "gcc",
		SettingCompilerVersion: "13",
		SettingBuildType:       "Release",
	}
}

func msvcDebug() Settings {
	return Settings{
		SettingOS:              "Windows",
		SettingArch:            "x86",
		SettingCompiler:        "msvc",
		SettingCompilerVersion: "193",
		SettingBuildType:       "Debug",
	}
}

func TestHeaderOnlyIgnoresSettings(t *testing.T) {
	t.Parallel()

	a := Compute(Info{Name: "wildcat-ws", Version: "0.1.1", Settings: gccRelease()}, HeaderOnly{})
	b := Compute(Info{Name: "wildcat-ws", Version: "0.1.1", Settings: msvcDebug()}, HeaderOnly{})
	c := Compute(Info{Name: "wildcat-ws", Version: "0.1.1"}, HeaderOnly{})

	if a != b || b != c {
		t.Errorf("header-only ids differ across settings: %s, %s, %s", a, b, c)
	}
}

func TestIdentityDependsOnReference(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a, b Info
	}{
		{
			"different version",
			Info{Name: "wildcat-ws", Version: "0.1.1"},
			Info{Name: "wildcat-ws", Version: "0.1.2"},
		},
		{
			"different name",
			Info{Name: "wildcat-ws", Version: "0.1.1"},
			Info{Name: "wildcat-http", Version: "0.1.1"},
		},
		{
			"name/version boundary",
			Info{Name: "a", Version: "bc"},
			Info{Name: "ab", Version: "c"},
		},
		{
			"newline in name",
			Info{Name: "a\nversion=b", Version: "c"},
			Info{Name: "a", Version: "b\nversion=c"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if Compute(tt.a, HeaderOnly{}) == Compute(tt.b, HeaderOnly{}) {
				t.Errorf("ids collide for %+v and %+v", tt.a, tt.b)
			}
		})
	}
}

func TestFullPolicyTracksSettings(t *testing.T) {
	t.Parallel()

	a := Compute(Info{Name: "wildcat-ws", Version: "0.1.1", Settings: gccRelease()}, Full{})
	b := Compute(Info{Name: "wildcat-ws", Version: "0.1.1", Settings: msvcDebug()}, Full{})
	if a == b {
		t.Errorf("full policy ignored settings: %s", a)
	}

	again := Compute(Info{Name: "wildcat-ws", Version: "0.1.1", Settings: gccRelease()}, Full{})
	if a != again {
		t.Errorf("full policy not deterministic: %s vs %s", a, again)
	}
}

func TestFullPolicySettingBoundaries(t *testing.T) {
	t.Parallel()

	a := Compute(Info{Name: "wildcat-ws", Version: "0.1.1", Settings: Settings{"a=b": "c"}}, Full{})
	b := Compute(Info{Name: "wildcat-ws", Version: "0.1.1", Settings: Settings{"a": "b=c"}}, Full{})
	if a == b {
		t.Errorf("ids collide for settings split at different '=': %s", a)
	}

	c := Compute(Info{Name: "wildcat-ws", Version: "0.1.1", Options: map[string]string{"k": "x\nl=y"}}, Full{})
	d := Compute(Info{Name: "wildcat-ws", Version: "0.1.1", Options: map[string]string{"k": "x", "l": "y"}}, Full{})
	if c == d {
		t.Errorf("ids collide for options with embedded newline: %s", c)
	}
}

func TestComputeDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	s := gccRelease()
	Compute(Info{Name: "wildcat-ws", Version: "0.1.1", Settings: s}, HeaderOnly{})
	if len(s) != 5 {
		t.Errorf("settings were modified: %v", s)
	}
}

func TestIDEncoding(t *testing.T) {
	t.Parallel()

	id := Compute(Info{Name: "wildcat-ws", Version: "0.1.1"}, HeaderOnly{})
	if len(id) != 52 {
		t.Errorf("len(id) = %d, want 52", len(id))
	}
	for _, r := range id.String() {
		if !strings.ContainsRune("0123456789abcdfghijklmnpqrsvwxyz", r) {
			t.Fatalf("id %s contains %q outside the nix base32 alphabet", id, r)
		}
	}
	if len(id.Short()) != 12 {
		t.Errorf("Short() = %q", id.Short())
	}
}

func TestSettingsApply(t *testing.T) {
	t.Parallel()

	s := Settings{SettingOS: "Linux"}
	if err := s.Apply([]string{"os=Macos", "compiler = clang"}); err != nil {
		t.Fatal(err)
	}
	if s[SettingOS] != "Macos" || s[SettingCompiler] != "clang" {
		t.Errorf("Apply() = %v", s)
	}
	if got := s.String(); got != "compiler=clang os=Macos" {
		t.Errorf("String() = %q", got)
	}

	for _, bad := range []string{"os", "=x"} {
		if err := (Settings{}).Apply([]string{bad}); err == nil {
			t.Errorf("Apply(%q) expected error", bad)
		}
	}
}

func TestPolicyFor(t *testing.T) {
	t.Parallel()

	for name, want := range map[string]string{"": "header_only", "header_only": "header_only", "full": "full"} {
		p, err := PolicyFor(name)
		if err != nil {
			t.Fatalf("PolicyFor(%q): %v", name, err)
		}
		if p.Name() != want {
			t.Errorf("PolicyFor(%q).Name() = %q, want %q", name, p.Name(), want)
		}
	}
	if _, err := PolicyFor("binary"); err == nil {
		t.Error("PolicyFor(binary) expected error")
	}
}

package core

// profile.go holds named conversion profiles.
//
// A profile fixes everything about a conversion except the input bytes: which
// sheet and header row to read, the row filter, the grouping keys, the column
// names feeding manifest entries and the output format. The built-in "rdcman"
// profile reads the second sheet of an asset export, keeps Windows and Verint
// exporters and groups servers by Customer, Country and Location.
//
// Profiles can be replaced at startup from a YAML file:
//
//	default: rdcman
//	profiles:
//	  - name: rdcman
//	    output: manifest
//	    sheet_index: 1
//	    header_offset: 6
//	    filter:
//	      mode: in
//	      column: exporter_name_os
//	      values: [exporter_windows, exporter_verint]
//	    group_keys: [Customer, Country, Location]
//	    columns:
//	      display: FQDN
//	      address: IP Address
//	      identifier: Configuration Item Name
//	      secret_url: Secret Server URL

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrUnknownProfile is wrapped by ProfileSet.Get for names it does not hold.
var ErrUnknownProfile = errors.New("unknown profile")

// DefaultGroupName names the manifest root when neither the caller nor the
// profile supplies one.
const DefaultGroupName = "Servers"

// ProfileFilter is the YAML form of a FilterSpec.
type ProfileFilter struct {
	Mode   string   `yaml:"mode" json:"mode"`
	Column string   `yaml:"column" json:"column,omitempty"`
	Values []string `yaml:"values" json:"values,omitempty"`
}

// ProfileColumns is the YAML form of a ColumnMap.
type ProfileColumns struct {
	Display    string `yaml:"display" json:"display,omitempty"`
	Address    string `yaml:"address" json:"address,omitempty"`
	Identifier string `yaml:"identifier" json:"identifier,omitempty"`
	SecretURL  string `yaml:"secret_url" json:"secret_url,omitempty"`
}

// Profile is a named, reusable conversion setup.
type Profile struct {
	Name         string         `yaml:"name" json:"name"`
	Description  string         `yaml:"description" json:"description"`
	Output       string         `yaml:"output" json:"output"`
	SheetIndex   int            `yaml:"sheet_index" json:"sheet_index"`
	HeaderOffset int            `yaml:"header_offset" json:"header_offset"`
	GroupName    string         `yaml:"group_name" json:"group_name,omitempty"`
	Filter       ProfileFilter  `yaml:"filter" json:"filter"`
	GroupKeys    []string       `yaml:"group_keys" json:"group_keys,omitempty"`
	Columns      ProfileColumns `yaml:"columns" json:"columns"`
}

// builtinFilter is the exporter filter of the asset export workflow.
var builtinFilter = ProfileFilter{
	Mode:   "in",
	Column: "exporter_name_os",
	Values: []string{"exporter_windows", "exporter_verint"},
}

var builtinColumns = ProfileColumns{
	Display:    "FQDN",
	Address:    "IP Address",
	Identifier: "Configuration Item Name",
	SecretURL:  DefaultSecretURLColumn,
}

// BuiltinProfiles returns the profiles available without a profiles file.
func BuiltinProfiles() *ProfileSet {
	set, err := NewProfileSet("rdcman",
		Profile{
			Name:         "rdcman",
			Description:  "RDCMan connection file grouped by Customer, Country and Location",
			Output:       "manifest",
			SheetIndex:   1,
			HeaderOffset: 6,
			Filter:       builtinFilter,
			GroupKeys:    []string{"Customer", "Country", "Location"},
			Columns:      builtinColumns,
		},
		Profile{
			Name:         "filtered-csv",
			Description:  "Filtered rows as CSV",
			Output:       "delimited",
			SheetIndex:   1,
			HeaderOffset: 6,
			Filter:       builtinFilter,
			Columns:      ProfileColumns{SecretURL: DefaultSecretURLColumn},
		},
	)
	if err != nil {
		panic(fmt.Sprintf("builtin profiles: %v", err))
	}
	return set
}

// Validate checks that the profile can produce a request.
func (p Profile) Validate() error {
	var errs []string

	if strings.TrimSpace(p.Name) == "" {
		errs = append(errs, "name is required")
	}
	out, err := ParseOutputMode(p.Output)
	if err != nil {
		errs = append(errs, err.Error())
	}
	if mode, err := ParseFilterMode(p.Filter.Mode); err != nil {
		errs = append(errs, err.Error())
	} else if mode != FilterNone && p.Filter.Column == "" {
		errs = append(errs, "filter.column is required when filter.mode is set")
	}
	if len(p.GroupKeys) > MaxGroupKeys {
		errs = append(errs, fmt.Sprintf("at most %d group_keys are supported", MaxGroupKeys))
	}
	if p.SheetIndex < 0 || p.HeaderOffset < 0 {
		errs = append(errs, "sheet_index and header_offset must not be negative")
	}
	if out == OutputManifest && (p.Columns.Display == "" || p.Columns.Address == "" || p.Columns.Identifier == "") {
		errs = append(errs, "manifest profiles need columns.display, columns.address and columns.identifier")
	}

	if len(errs) > 0 {
		return fmt.Errorf("profile %q: %s", p.Name, strings.Join(errs, "; "))
	}
	return nil
}

// ProfileSet is an immutable collection of profiles with a default.
type ProfileSet struct {
	byName map[string]Profile
	def    string
}

// NewProfileSet validates profiles and indexes them by name. defaultName
// must be one of them; if empty the first profile is the default.
func NewProfileSet(defaultName string, profiles ...Profile) (*ProfileSet, error) {
	if len(profiles) == 0 {
		return nil, errors.New("no profiles defined")
	}
	set := &ProfileSet{byName: make(map[string]Profile, len(profiles))}
	for _, p := range profiles {
		if err := p.Validate(); err != nil {
			return nil, err
		}
		if _, dup := set.byName[p.Name]; dup {
			return nil, fmt.Errorf("profile %q defined twice", p.Name)
		}
		set.byName[p.Name] = p
	}
	if defaultName == "" {
		defaultName = profiles[0].Name
	}
	if _, ok := set.byName[defaultName]; !ok {
		return nil, fmt.Errorf("default %w %q", ErrUnknownProfile, defaultName)
	}
	set.def = defaultName
	return set, nil
}

type profilesFile struct {
	Default  string    `yaml:"default"`
	Profiles []Profile `yaml:"profiles"`
}

// LoadProfiles reads a YAML profiles file. The file replaces the built-in
// profiles entirely.
func LoadProfiles(path string) (*ProfileSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profiles: %w", err)
	}
	return ParseProfiles(data)
}

// ParseProfiles parses the YAML profiles format.
func ParseProfiles(data []byte) (*ProfileSet, error) {
	var f profilesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse profiles: %w", err)
	}
	return NewProfileSet(f.Default, f.Profiles...)
}

// Get returns the named profile, or the default for "".
func (s *ProfileSet) Get(name string) (Profile, error) {
	if name == "" {
		name = s.def
	}
	p, ok := s.byName[name]
	if !ok {
		return Profile{}, fmt.Errorf("%w %q", ErrUnknownProfile, name)
	}
	return p, nil
}

// Default returns the default profile.
func (s *ProfileSet) Default() Profile {
	return s.byName[s.def]
}

// WithDefault returns a copy of s whose default is name.
func (s *ProfileSet) WithDefault(name string) (*ProfileSet, error) {
	if _, ok := s.byName[name]; !ok {
		return nil, fmt.Errorf("default %w %q", ErrUnknownProfile, name)
	}
	return &ProfileSet{byName: s.byName, def: name}, nil
}

// Names returns the profile names, default first, the rest sorted.
func (s *ProfileSet) Names() []string {
	names := make([]string, 0, len(s.byName))
	for name := range s.byName {
		if name != s.def {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return append([]string{s.def}, names...)
}

// List returns the profiles in Names order.
func (s *ProfileSet) List() []Profile {
	names := s.Names()
	out := make([]Profile, len(names))
	for i, name := range names {
		out[i] = s.byName[name]
	}
	return out
}

// Overrides are per-request adjustments applied on top of a profile.
// Zero values leave the profile setting in place.
type Overrides struct {
	GroupName    string
	FilterMode   string
	FilterColumn string
	FilterValues []string
	GroupKeys    []string
	SheetIndex   *int
	HeaderOffset *int
	Output       string
}

// Request builds a core Request for input named sourceName.
func (p Profile) Request(input []byte, sourceName string, ov Overrides) (Request, error) {
	kind, err := KindFromFilename(sourceName)
	if err != nil {
		return Request{}, err
	}

	outName := p.Output
	if ov.Output != "" {
		outName = ov.Output
	}
	output, err := ParseOutputMode(outName)
	if err != nil {
		return Request{}, err
	}

	filter, err := p.filterSpec(ov)
	if err != nil {
		return Request{}, err
	}

	load := LoadOptions{
		SheetIndex:   p.SheetIndex,
		HeaderOffset: p.HeaderOffset,
		Comma:        DefaultComma(sourceName),
	}
	if ov.SheetIndex != nil {
		load.SheetIndex = *ov.SheetIndex
	}
	if ov.HeaderOffset != nil {
		load.HeaderOffset = *ov.HeaderOffset
	}
	if load.SheetIndex < 0 || load.HeaderOffset < 0 {
		return Request{}, errors.New("invalid option: sheet index and header offset must not be negative")
	}

	keys := p.GroupKeys
	if ov.GroupKeys != nil {
		keys = ov.GroupKeys
	}

	group := strings.TrimSpace(ov.GroupName)
	if group == "" {
		group = p.GroupName
	}
	if group == "" {
		group = DefaultGroupName
	}

	return Request{
		Input:     input,
		Kind:      kind,
		Load:      load,
		Filter:    filter,
		GroupKeys: append([]string(nil), keys...),
		Labels:    Labels{GroupName: group},
		Columns: ColumnMap{
			Display:    p.Columns.Display,
			Address:    p.Columns.Address,
			Identifier: p.Columns.Identifier,
			SecretURL:  p.Columns.SecretURL,
		},
		Output:     output,
		SourceName: sourceName,
	}, nil
}

func (p Profile) filterSpec(ov Overrides) (FilterSpec, error) {
	f := p.Filter
	if ov.FilterMode != "" {
		f.Mode = ov.FilterMode
	}
	if ov.FilterColumn != "" {
		f.Column = ov.FilterColumn
	}
	if ov.FilterValues != nil {
		f.Values = ov.FilterValues
	}

	mode, err := ParseFilterMode(f.Mode)
	if err != nil {
		return FilterSpec{}, err
	}
	if mode != FilterNone && f.Column == "" {
		return FilterSpec{}, errors.New("invalid option: a filter column is required")
	}

	switch mode {
	case FilterIn:
		return In(f.Column, f.Values...), nil
	case FilterEquals:
		if len(f.Values) != 1 {
			return FilterSpec{}, fmt.Errorf("invalid option: equals filter takes one value, got %d", len(f.Values))
		}
		return Equals(f.Column, f.Values[0]), nil
	case FilterPresent:
		return Present(f.Column), nil
	default:
		return FilterSpec{}, nil
	}
}

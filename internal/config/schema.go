package config

// File is the root of a model file.
type File struct {
	RunMode         string           `yaml:"run_mode"        toml:"run_mode"`
	Objects         []ObjectBlock    `yaml:"objects"         toml:"objects"`
	Transformations []TransformBlock `yaml:"transformations" toml:"transformations"`
	Estimates       []EstimateBlock  `yaml:"estimates"       toml:"estimates"`
	Profiles        []ProfileBlock   `yaml:"profiles"        toml:"profiles"`

	// Path is the file the model was loaded from, if any.
	Path string `yaml:"-" toml:"-"`
}

// ObjectBlock declares a stand-in simulation object and its addressables.
type ObjectBlock struct {
	Type  string `yaml:"type"  toml:"type"`
	Label string `yaml:"label" toml:"label"`

	Scalars      NamedValues   `yaml:"scalars"       toml:"scalars"`
	Vectors      NamedSeries   `yaml:"vectors"       toml:"vectors"`
	UnsignedMaps NamedMaps     `yaml:"unsigned_maps" toml:"unsigned_maps"`
	StringMaps   NamedMaps     `yaml:"string_maps"   toml:"string_maps"`
	PointerSets  NamedSeries   `yaml:"pointer_sets"  toml:"pointer_sets"`
	LookupOnly   StringOrArray `yaml:"lookup_only"   toml:"lookup_only"`

	Line int `yaml:"-" toml:"-"`
}

// TransformBlock is a @parameter_transformation.
type TransformBlock struct {
	Label      string        `yaml:"label"      toml:"label"`
	Type       string        `yaml:"type"       toml:"type"`
	Parameters StringOrArray `yaml:"parameters" toml:"parameters"`

	PriorAppliesToRestoredParameters bool `yaml:"prior_applies_to_restored_parameters" toml:"prior_applies_to_restored_parameters"`

	// logistic
	LowerBound *float64 `yaml:"lower_bound" toml:"lower_bound"`
	UpperBound *float64 `yaml:"upper_bound" toml:"upper_bound"`

	// simplex
	SumToOne *bool `yaml:"sum_to_one" toml:"sum_to_one"`

	Line int `yaml:"-" toml:"-"`
}

// EstimateBlock is an @estimate.
type EstimateBlock struct {
	Label      string       `yaml:"label"       toml:"label"`
	Type       string       `yaml:"type"        toml:"type"`
	Parameter  string       `yaml:"parameter"   toml:"parameter"`
	LowerBound FloatOrArray `yaml:"lower_bound" toml:"lower_bound"`
	UpperBound FloatOrArray `yaml:"upper_bound" toml:"upper_bound"`
	Mu         FloatOrArray `yaml:"mu"          toml:"mu"`
	CV         FloatOrArray `yaml:"cv"          toml:"cv"`

	TransformWithJacobian *bool `yaml:"transform_with_jacobian" toml:"transform_with_jacobian"`

	Line int `yaml:"-" toml:"-"`
}

// ProfileBlock is a @profile.
type ProfileBlock struct {
	Label     string `yaml:"label"     toml:"label"`
	Parameter string `yaml:"parameter" toml:"parameter"`

	Line int `yaml:"-" toml:"-"`
}

// StringOrArray is a list that may be written as a single string.
type StringOrArray []string

// FloatOrArray is a list that may be written as a single number.
type FloatOrArray []float64

// NamedValue is one entry of a NamedValues table.
type NamedValue struct {
	Name  string
	Value float64
}

// NamedValues is an ordered name -> number table.
type NamedValues []NamedValue

// NamedList is one entry of a NamedSeries table.
type NamedList struct {
	Name   string
	Values []float64
}

// NamedSeries is an ordered name -> list of numbers table.
type NamedSeries []NamedList

// NamedMap is one entry of a NamedMaps table; Keys and Values are parallel.
type NamedMap struct {
	Name   string
	Keys   []string
	Values []float64
}

// NamedMaps is an ordered name -> (key -> number) table.
type NamedMaps []NamedMap

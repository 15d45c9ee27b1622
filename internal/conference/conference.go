// Package conference defines review venues and the lookup rules for the
// merged set of built-in and user-defined venues.
package conference

// Conference describes a single review venue. The focus area and optional
// custom screening rules are consumed verbatim by prompt construction.
type Conference struct {
	// ID is the stable identifier used by submissions to reference the
	// venue.
	ID string `json:"id"`

	// Name is the display name of the venue.
	Name string `json:"name"`

	// ShortName is the common abbreviation.
	ShortName string `json:"shortName"`

	// Description is a one-line expansion of the venue name.
	Description string `json:"description"`

	// FocusArea is free text describing the venue's topical scope.
	FocusArea string `json:"focusArea"`

	// CustomRules holds optional venue-specific screening guidelines.
	CustomRules string `json:"customRules,omitempty"`
}

// builtIn is the process-constant venue set. User-defined venues are stored
// in the app config and merged in at lookup time.
var builtIn = []Conference{
	{
		ID:          "neurips",
		Name:        "NeurIPS",
		ShortName:   "NeurIPS",
		Description: "Neural Information Processing Systems",
		FocusArea: "Machine Learning, Computational Neuroscience, " +
			"Deep Learning theory.",
	},
	{
		ID:          "iclr",
		Name:        "ICLR",
		ShortName:   "ICLR",
		Description: "International Conference on Learning Representations",
		FocusArea: "Deep Learning, Representation Learning, " +
			"Generative Models.",
	},
	{
		ID:          "icml",
		Name:        "ICML",
		ShortName:   "ICML",
		Description: "International Conference on Machine Learning",
		FocusArea:   "General Machine Learning, Optimization, Statistics.",
	},
	{
		ID:        "kdd",
		Name:      "KDD",
		ShortName: "KDD",
		Description: "ACM SIGKDD Conference on Knowledge Discovery " +
			"and Data Mining",
		FocusArea: "Data Mining, Applied Data Science, Scalable " +
			"Algorithms.",
	},
	{
		ID:          "acl",
		Name:        "ACL",
		ShortName:   "ACL",
		Description: "Association for Computational Linguistics",
		FocusArea:   "NLP, Computational Linguistics, Language Models.",
	},
	{
		ID:          "cvpr",
		Name:        "CVPR",
		ShortName:   "CVPR",
		Description: "Conference on Computer Vision and Pattern Recognition",
		FocusArea:   "Computer Vision, Image Processing.",
	},
}

// BuiltIn returns a copy of the built-in venue set.
func BuiltIn() []Conference {
	out := make([]Conference, len(builtIn))
	copy(out, builtIn)

	return out
}

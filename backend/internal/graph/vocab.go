package graph

import "orkg-backend/backend/internal/ids"

// Predicates used by the core queries and content types
var (
	PredicateHasDOI              = ids.MustThingID("P26")
	PredicateHasAuthor           = ids.MustThingID("P27")
	PredicateMonthPublished      = ids.MustThingID("P28")
	PredicateYearPublished       = ids.MustThingID("P29")
	PredicateHasResearchField    = ids.MustThingID("P30")
	PredicateHasContribution     = ids.MustThingID("P31")
	PredicateHasResearchProblem  = ids.MustThingID("P32")
	PredicateHasSubfield         = ids.MustThingID("P36")
	PredicateDescription         = ids.MustThingID("description")
	PredicateHasAuthors          = ids.MustThingID("hasAuthors")
	PredicateHasListElement      = ids.MustThingID("hasListElement")
	PredicateHasURL              = ids.MustThingID("url")
	PredicateHasVenue            = ids.MustThingID("HAS_VENUE")
	PredicateCompareContribution = ids.MustThingID("compareContribution")
	PredicateReference           = ids.MustThingID("reference")
	PredicateIsAnonymized        = ids.MustThingID("IsAnonymized")

	PredicateHasBenchmark  = ids.MustThingID("HAS_BENCHMARK")
	PredicateHasDataset    = ids.MustThingID("HAS_DATASET")
	PredicateHasSourceCode = ids.MustThingID("HAS_SOURCE_CODE")
	PredicateHasModel      = ids.MustThingID("HAS_MODEL")
	PredicateHasEvaluation = ids.MustThingID("HAS_EVALUATION")
	PredicateHasMetric     = ids.MustThingID("HAS_METRIC")
	PredicateHasValue      = ids.MustThingID("HAS_VALUE")

	PredicateShTargetClass  = ids.MustThingID("sh:targetClass")
	PredicateShProperty     = ids.MustThingID("sh:property")
	PredicateShClosed       = ids.MustThingID("sh:closed")
	PredicateShPath         = ids.MustThingID("sh:path")
	PredicateShMinCount     = ids.MustThingID("sh:minCount")
	PredicateShMaxCount     = ids.MustThingID("sh:maxCount")
	PredicateShPattern      = ids.MustThingID("sh:pattern")
	PredicateShDatatype     = ids.MustThingID("sh:datatype")
	PredicateShClass        = ids.MustThingID("sh:class")
	PredicateShOrder        = ids.MustThingID("sh:order")
	PredicateShMinInclusive = ids.MustThingID("sh:minInclusive")
	PredicateShMaxInclusive = ids.MustThingID("sh:maxInclusive")
	PredicatePlaceholder    = ids.MustThingID("placeholder")

	PredicateTemplateLabelFormat       = ids.MustThingID("TemplateLabelFormat")
	PredicateTemplateOfResearchField   = ids.MustThingID("TemplateOfResearchField")
	PredicateTemplateOfResearchProblem = ids.MustThingID("TemplateOfResearchProblem")
	PredicateTemplateOfPredicate       = ids.MustThingID("TemplateOfPredicate")
)

// Classes
var (
	ClassPaper          = ids.MustThingID("Paper")
	ClassContribution   = ids.MustThingID("Contribution")
	ClassProblem        = ids.MustThingID("Problem")
	ClassResearchField  = ids.MustThingID("ResearchField")
	ClassComparison     = ids.MustThingID("Comparison")
	ClassBenchmark      = ids.MustThingID("Benchmark")
	ClassDataset        = ids.MustThingID("Dataset")
	ClassModel          = ids.MustThingID("Model")
	ClassMetric         = ids.MustThingID("Metric")
	ClassNodeShape      = ids.MustThingID("NodeShape")
	ClassPropertyShape  = ids.MustThingID("PropertyShape")
	ClassVisualization  = ids.MustThingID("Visualization")
	ClassSmartReview    = ids.MustThingID("SmartReview")
	ClassLiteratureList = ids.MustThingID("LiteratureList")
	ClassList           = ids.MustThingID("List")
	ClassAuthor         = ids.MustThingID("Author")
	ClassVenue          = ids.MustThingID("Venue")

	ClassThing     = ids.MustThingID("Thing")
	ClassResource  = ids.MustThingID("Resource")
	ClassPredicate = ids.MustThingID("Predicate")
	ClassClass     = ids.MustThingID("Class")
	ClassLiteral   = ids.MustThingID("Literal")
)

// Literal datatypes
const (
	DatatypeString  = "xsd:string"
	DatatypeInteger = "xsd:integer"
	DatatypeInt     = "xsd:int"
	DatatypeDecimal = "xsd:decimal"
	DatatypeBoolean = "xsd:boolean"
	DatatypeDate    = "xsd:date"
	DatatypeAnyURI  = "xsd:anyURI"
)

// ReservedClasses cannot be assigned to resources by users
var ReservedClasses = []ids.ThingID{ClassThing, ClassResource, ClassPredicate, ClassClass, ClassLiteral, ClassList}

// contentTypes is ordered: the first matching class names the content type.
var contentTypes = []struct {
	class ids.ThingID
	name  string
}{
	{ClassPaper, "paper"},
	{ClassComparison, "comparison"},
	{ClassNodeShape, "template"},
	{ClassVisualization, "visualization"},
	{ClassSmartReview, "smart-review"},
	{ClassLiteratureList, "literature-list"},
	{ClassContribution, "contribution"},
	{ClassProblem, "problem"},
	{ClassResearchField, "research-field"},
}

// VocabularyPredicates lists every predicate the core relies on, with a label.
func VocabularyPredicates() map[ids.ThingID]string {
	return map[ids.ThingID]string{
		PredicateHasDOI:                    "has DOI",
		PredicateHasAuthor:                 "has author",
		PredicateMonthPublished:            "publication month",
		PredicateYearPublished:             "publication year",
		PredicateHasResearchField:          "has research field",
		PredicateHasContribution:           "has contribution",
		PredicateHasResearchProblem:        "has research problem",
		PredicateHasSubfield:               "has subfield",
		PredicateDescription:               "description",
		PredicateHasAuthors:                "has authors",
		PredicateHasListElement:            "has list element",
		PredicateHasURL:                    "url",
		PredicateHasVenue:                  "has venue",
		PredicateCompareContribution:       "compare contribution",
		PredicateReference:                 "reference",
		PredicateIsAnonymized:              "is anonymized",
		PredicateHasBenchmark:              "has benchmark",
		PredicateHasDataset:                "has dataset",
		PredicateHasSourceCode:             "has source code",
		PredicateHasModel:                  "has model",
		PredicateHasEvaluation:             "has evaluation",
		PredicateHasMetric:                 "has metric",
		PredicateHasValue:                  "has value",
		PredicateShTargetClass:             "target class",
		PredicateShProperty:                "property",
		PredicateShClosed:                  "closed",
		PredicateShPath:                    "path",
		PredicateShMinCount:                "min count",
		PredicateShMaxCount:                "max count",
		PredicateShPattern:                 "pattern",
		PredicateShDatatype:                "datatype",
		PredicateShClass:                   "class",
		PredicateShOrder:                   "order",
		PredicateShMinInclusive:            "min inclusive",
		PredicateShMaxInclusive:            "max inclusive",
		PredicatePlaceholder:               "placeholder",
		PredicateTemplateLabelFormat:       "template label format",
		PredicateTemplateOfResearchField:   "template of research field",
		PredicateTemplateOfResearchProblem: "template of research problem",
		PredicateTemplateOfPredicate:       "template of predicate",
	}
}

// VocabularyClasses lists every class the core relies on, with a label.
func VocabularyClasses() map[ids.ThingID]string {
	return map[ids.ThingID]string{
		ClassPaper:          "Paper",
		ClassContribution:   "Contribution",
		ClassProblem:        "Problem",
		ClassResearchField:  "Research Field",
		ClassComparison:     "Comparison",
		ClassBenchmark:      "Benchmark",
		ClassDataset:        "Dataset",
		ClassModel:          "Model",
		ClassMetric:         "Metric",
		ClassNodeShape:      "Node shape",
		ClassPropertyShape:  "Property shape",
		ClassVisualization:  "Visualization",
		ClassSmartReview:    "Smart review",
		ClassLiteratureList: "Literature list",
		ClassAuthor:         "Author",
		ClassVenue:          "Venue",
		ClassList:           "List",
	}
}

package hal

// searchResponse is the HAL Solr search envelope.
type searchResponse struct {
	Response struct {
		NumFound int   `json:"numFound"`
		Docs     []Doc `json:"docs"`
	} `json:"response"`
	NextCursorMark string `json:"nextCursorMark"`
}

// Doc is one HAL document with the fields requested through fl.
type Doc struct {
	DocID             int64    `json:"docid"`
	Label             string   `json:"label_s"`
	Titles            []string `json:"title_s"`
	Abstracts         []string `json:"abstract_s"`
	AuthorFullNames   []string `json:"authFullName_s"`
	AuthAffiliations  []string `json:"authAffiliation_s"`
	AuthOrganisms     []string `json:"authOrganism_s"`
	StructNames       []string `json:"structName_s"`
	StructCities      []string `json:"structCity_s"`
	StructCountries   []string `json:"structCountry_s"`
	InstStructNames   []string `json:"instStructName_s"`
	InstStructCountry []string `json:"instStructCountry_s"`
	LabStructNames    []string `json:"labStructName_s"`
	LabStructCountry  []string `json:"labStructCountry_s"`
	SubmittedDate     string   `json:"submittedDate_tdate"`
	PublishedYear     int      `json:"publishedDateY_i"`
	DOI               string   `json:"doi_s"`
}

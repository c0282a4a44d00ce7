package resource

// Kinds returns fresh descriptors for the six resource kinds. The field
// order and messages define the client-facing validation contract, so
// changes here are wire-visible.
func Kinds() []*Kind {
	return []*Kind{
		courseKind(),
		eventKind(),
		journalKind(),
		conferenceKind(),
		bookKind(),
		patentKind(),
	}
}

// authorised flips a kind's guard messages to the British spelling.
func authorised(k *Kind) *Kind {
	k.Authorised = true
	return k
}

func courseKind() *Kind {
	return authorised(newKind("course", "courses", []Field{
		{
			Name:            "title",
			Required:        true,
			RequiredMessage: "A course title is required.",
			EmptyMessage:    "Please provide a title for the course.",
		},
		{
			Name:            "description",
			Required:        true,
			RequiredMessage: "A course description is required.",
			EmptyMessage:    "Please provide a description for the course.",
		},
		{Name: "estimatedTime"},
		{Name: "materialsNeeded"},
	}))
}

func eventKind() *Kind {
	return authorised(newKind("event", "events", []Field{
		{
			Name:            "title",
			Required:        true,
			RequiredMessage: "An event title is required.",
			EmptyMessage:    "Please provide a title for the event.",
		},
		{
			Name:            "description",
			Required:        true,
			RequiredMessage: "An event description is required.",
			EmptyMessage:    "Please provide a description for the event.",
		},
		{
			Name:            "eventType",
			Required:        true,
			RequiredMessage: "Event type is required.",
			EmptyMessage:    "Please select an event type.",
		},
		{
			Name:            "participationType",
			Required:        true,
			RequiredMessage: "Participation type is required.",
			EmptyMessage:    "Please specify your participation type.",
		},
		{
			Name:            "eventDate",
			Required:        true,
			RequiredMessage: "An event date is required.",
			EmptyMessage:    "An event date is required.",
			Checks:          []Check{{Valid: IsDate, Message: "Please provide a valid date."}},
		},
		{
			Name:            "location",
			Required:        true,
			RequiredMessage: "A location for the event is required.",
			EmptyMessage:    "Please provide a location for the event.",
		},
	}))
}

func journalKind() *Kind {
	return authorised(newKind("journal", "journals", []Field{
		{
			Name:            "title",
			Required:        true,
			RequiredMessage: "A journal title is required.",
			EmptyMessage:    "Please provide a title for the journal.",
		},
		{
			Name:            "authors",
			Required:        true,
			RequiredMessage: "Authors are required.",
			EmptyMessage:    "Please provide the authors for the journal.",
		},
		{
			Name:            "publicationDate",
			Required:        true,
			RequiredMessage: "A publication date is required.",
			EmptyMessage:    "A publication date is required.",
			Checks:          []Check{{Valid: IsDate, Message: "Please provide a valid date for the publication."}},
		},
		{
			Name:            "journal",
			Required:        true,
			RequiredMessage: "Journal name is required.",
			EmptyMessage:    "Please provide the journal name.",
		},
		{Name: "volume", EmptyMessage: "Please provide the journal volume."},
		{Name: "issue", EmptyMessage: "Please provide the journal issue."},
		{Name: "pages", EmptyMessage: "Please provide the page numbers."},
		{
			Name:            "publisher",
			Required:        true,
			RequiredMessage: "Publisher is required.",
			EmptyMessage:    "Please provide the publisher for the journal.",
		},
	}))
}

func conferenceKind() *Kind {
	return authorised(newKind("conference", "conferences", []Field{
		{
			Name:            "title",
			Required:        true,
			RequiredMessage: "A conference title is required.",
			EmptyMessage:    "Please provide a title for the conference.",
		},
		{
			Name:            "authors",
			Required:        true,
			RequiredMessage: "Conference authors are required.",
			EmptyMessage:    "Please provide authors for the conference.",
		},
		{
			Name:            "publicationDate",
			Required:        true,
			RequiredMessage: "Publication date is required.",
			EmptyMessage:    "Publication date is required.",
			Checks:          []Check{{Valid: IsDate, Message: "Please provide a valid publication date."}},
		},
		{
			Name:            "conference",
			Required:        true,
			RequiredMessage: "Conference name is required.",
			EmptyMessage:    "Please provide the conference name.",
		},
		{Name: "volume"},
		{Name: "issue"},
		{Name: "pages"},
	}))
}

func bookKind() *Kind {
	return newKind("book", "books", []Field{
		{
			Name:            "title",
			Required:        true,
			RequiredMessage: "A book title is required.",
			EmptyMessage:    "Please provide a title for the book.",
		},
		{
			Name:            "authors",
			Required:        true,
			RequiredMessage: "Book authors are required.",
			EmptyMessage:    "Please provide authors for the book.",
		},
		{
			Name:            "publicationDate",
			Required:        true,
			RequiredMessage: "Publication date is required.",
			EmptyMessage:    "Publication date is required.",
			Checks:          []Check{{Valid: IsDate, Message: "Please provide a valid publication date."}},
		},
		{Name: "volume"},
		{
			Name:            "pages",
			Required:        true,
			RequiredMessage: "Number of pages is required.",
			EmptyMessage:    "Please provide the number of pages for the book.",
		},
	})
}

func patentKind() *Kind {
	return newKind("patent", "patents", []Field{
		{
			Name:            "title",
			Required:        true,
			RequiredMessage: "A patent title is required.",
			EmptyMessage:    "Please provide a title for the patent.",
		},
		{
			Name:            "inventors",
			Required:        true,
			RequiredMessage: "Patent inventors are required.",
			EmptyMessage:    "Please provide inventors for the patent.",
		},
		{
			Name:            "publicationDate",
			Required:        true,
			RequiredMessage: "Publication date is required.",
			EmptyMessage:    "Publication date is required.",
			Checks:          []Check{{Valid: IsDate, Message: "Please provide a valid publication date."}},
		},
		{
			Name:            "patentOffice",
			Required:        true,
			RequiredMessage: "Patent office is required.",
			EmptyMessage:    "Please select a patent office.",
		},
		{
			Name:            "patentNumber",
			Required:        true,
			RequiredMessage: "Patent number is required.",
			EmptyMessage:    "Please provide a patent number.",
			Unique:          true,
			UniqueMessage:   "The patent number you entered already exists.",
		},
		{
			Name:            "applicationNumber",
			Required:        true,
			RequiredMessage: "Application number is required.",
			EmptyMessage:    "Please provide an application number.",
			Unique:          true,
			UniqueMessage:   "The application number you entered already exists.",
		},
	})
}

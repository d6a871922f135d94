package seed

import "quill/internal/domain/models"

var sampleFolders = []string{"Job search", "Marketing", "Clients"}

type sampleDocument struct {
	title   string
	toolID  string
	folder  string
	tags    []string
	content string
}

var sampleDocuments = []sampleDocument{
	{
		title:  "CV - Product designer",
		toolID: "cv-builder",
		folder: "Job search",
		tags:   []string{"cv", "design"},
		content: `<h1>Alex Rivera</h1>
<p>Product designer with eight years of experience shipping consumer apps.</p>
<h2>Experience</h2>
<ul><li>Lead designer, Northwind (2021 - present)</li><li>UX designer, Contoso (2017 - 2021)</li></ul>`,
	},
	{
		title:  "Cover letter for Northwind",
		toolID: "cover-letter",
		folder: "Job search",
		tags:   []string{"cover-letter"},
		content: `<p>Dear hiring team,</p>
<p>I am excited to apply for the Senior Product Designer role at Northwind.</p>
<p>Kind regards,<br>Alex</p>`,
	},
	{
		title:  "Launch announcement",
		toolID: "blog-post",
		folder: "Marketing",
		tags:   []string{"blog", "launch"},
		content: `# We just launched

Today we are opening the doors to everyone. Here is what changed since the beta.

## Faster drafts

Generation now streams as it writes.`,
	},
	{
		title:   "Launch thread",
		toolID:  "social-post",
		folder:  "Marketing",
		tags:    []string{"social", "launch"},
		content: "We just launched! Write CVs, cover letters and invoices in minutes. Try it today.",
	},
	{
		title:  "Invoice 2024-017",
		toolID: "invoice",
		folder: "Clients",
		tags:   []string{"invoice"},
		content: `<h1>Invoice 2024-017</h1>
<table><tr><th>Item</th><th>Amount</th></tr><tr><td>Website redesign</td><td>2,400.00</td></tr></table>`,
	},
	{
		title:   "Bonjour",
		toolID:  "translator",
		tags:    []string{"translation"},
		content: "Hello, how are you today?",
	},
}

// sampleDrafts builds the draft set fresh on every call
func sampleDrafts() []*models.Draft {
	return []*models.Draft{
		{
			ToolID: "cover-letter",
			FormValues: models.FormValues{
				"company":   models.TextValue("Fabrikam"),
				"job_title": models.TextValue("Design lead"),
			},
			Style: models.StyleSelection{Template: "classic"},
		},
		{
			ToolID: "social-post",
			FormValues: models.FormValues{
				"platform": models.TextValue("linkedin"),
				"message":  models.TextValue("Spring sale starts Monday"),
				"variants": models.NumberValue(2),
			},
		},
	}
}

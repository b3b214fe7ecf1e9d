package llm

import (
	"github.com/Mr-WhoAm-I/AI-Project-Architect/internal/entity"
	"google.golang.org/genai"
)

func str(description string) *genai.Schema {
	return &genai.Schema{Type: genai.TypeString, Description: description}
}

func enum(description string, values ...string) *genai.Schema {
	return &genai.Schema{Type: genai.TypeString, Enum: values, Description: description}
}

func arrayOf(items *genai.Schema, description string) *genai.Schema {
	return &genai.Schema{Type: genai.TypeArray, Items: items, Description: description}
}

func object(description string, props map[string]*genai.Schema, required ...string) *genai.Schema {
	return &genai.Schema{Type: genai.TypeObject, Description: description, Properties: props, Required: required}
}

var analysisSchema = object("", map[string]*genai.Schema{
	"title":   str("A catchy name for the project"),
	"summary": str("A professional executive summary of the idea"),
	"palette": object("A unique color scheme tailored specifically to the project's mood. Do not use generic colors.",
		map[string]*genai.Schema{
			"background": str("Main app background HEX. e.g. #0f172a for tech, #1a0505 for horror, #f0fdf4 for plants."),
			"surface":    str("Card/Container background HEX. Slightly lighter/darker than background."),
			"primary":    str("Main brand color HEX."),
			"secondary":  str("Accent color HEX."),
			"text":       str("Main text color HEX. Must be readable on background."),
		},
		"background", "surface", "primary", "secondary", "text",
	),
	"themeMode":      enum("The best UI theme mode for this app.", string(entity.ThemeModeLight), string(entity.ThemeModeDark)),
	"targetAudience": arrayOf(str(""), "List of potential user personas"),
	"coreFeatures":   arrayOf(str(""), "List of must-have features"),
	"questions": arrayOf(object("", map[string]*genai.Schema{
		"question":        str(""),
		"suggestedAnswer": str("An AI-generated likely answer based on the context"),
	}, "question", "suggestedAnswer"), "3-5 Clarifying questions to refine the requirements"),
}, "title", "summary", "targetAudience", "coreFeatures", "questions", "palette", "themeMode")

var architectureSchema = object("", map[string]*genai.Schema{
	"frontend":  arrayOf(str(""), ""),
	"backend":   arrayOf(str(""), ""),
	"database":  arrayOf(str(""), ""),
	"devops":    arrayOf(str(""), ""),
	"rationale": str("Why this stack was chosen"),
	"modules": arrayOf(object("", map[string]*genai.Schema{
		"name":         str(""),
		"description":  str(""),
		"interactions": arrayOf(str(""), ""),
	}, "name", "description", "interactions"), ""),
	"diagram": object("Data to render a high-level architecture diagram.", map[string]*genai.Schema{
		"nodes": arrayOf(object("", map[string]*genai.Schema{
			"id":    str("Unique short ID, e.g., 'web', 'api'"),
			"label": str("Display name"),
			"type": enum("", string(entity.NodeTypeClient), string(entity.NodeTypeService),
				string(entity.NodeTypeDatabase), string(entity.NodeTypeExternal)),
		}, "id", "label", "type"), ""),
		"edges": arrayOf(object("", map[string]*genai.Schema{
			"from":  str("Source Node ID"),
			"to":    str("Target Node ID"),
			"label": str("Protocol or Data type, e.g. 'JSON', 'SQL'"),
		}, "from", "to"), ""),
	}, "nodes", "edges"),
}, "frontend", "backend", "database", "devops", "modules", "rationale", "diagram")

var planSchema = object("", map[string]*genai.Schema{
	"mvpDefinition": str("What constitutes the MVP"),
	"risks":         arrayOf(str(""), "Potential technical or product risks"),
	"phases": arrayOf(object("", map[string]*genai.Schema{
		"name":     str(""),
		"duration": str("e.g., '2 weeks'"),
		"tasks": arrayOf(object("", map[string]*genai.Schema{
			"name":        str(""),
			"description": str(""),
			"complexity": enum("", string(entity.ComplexityLow), string(entity.ComplexityMedium),
				string(entity.ComplexityHigh)),
		}, "name", "description", "complexity"), ""),
	}, "name", "duration", "tasks"), ""),
}, "mvpDefinition", "risks", "phases")

var docsSchema = object("", map[string]*genai.Schema{
	"prd": str("Full Product Requirements Document in Markdown format"),
	"designStyle": enum("The visual style for the presentation slides",
		string(entity.DesignStyleMinimal), string(entity.DesignStyleCorporate),
		string(entity.DesignStyleCreative), string(entity.DesignStyleTech)),
	"slides": arrayOf(object("", map[string]*genai.Schema{
		"title":        str(""),
		"content":      str("The main content text/bullets"),
		"speakerNotes": str("Notes for the presenter"),
		"layout": enum("The best layout strategy for this specific content",
			string(entity.SlideLayoutTitle), string(entity.SlideLayoutBulletList),
			string(entity.SlideLayoutBigNumber), string(entity.SlideLayoutSplit),
			string(entity.SlideLayoutQuote)),
	}, "title", "content", "speakerNotes", "layout"), "5-7 slides for an investor pitch deck"),
}, "prd", "slides", "designStyle")

var agentReplySchema = object("", map[string]*genai.Schema{
	"agentName": enum("", entity.AgentPersonas...),
	"response":  str(""),
}, "agentName", "response")

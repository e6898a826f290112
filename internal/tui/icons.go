package tui

import "github.com/votoinformado/votoadmin/internal/api"

// iconLabel maps every topic icon kind to its display name. Unknown kinds
// fall back to the raw value so legacy rows stay visible.
func iconLabel(icon api.TopicIcon) string {
	switch icon {
	case api.IconEconomy:
		return "Economía"
	case api.IconSecurity:
		return "Seguridad"
	case api.IconHealth:
		return "Salud"
	case api.IconEducation:
		return "Educación"
	case api.IconEnvironment:
		return "Medio Ambiente"
	case "":
		return "(sin ícono)"
	default:
		return string(icon)
	}
}

// iconGlyph renders the icon kind as a terminal glyph.
func iconGlyph(icon api.TopicIcon) string {
	switch icon {
	case api.IconEconomy:
		return "💰"
	case api.IconSecurity:
		return "🔒"
	case api.IconHealth:
		return "❤"
	case api.IconEducation:
		return "📖"
	case api.IconEnvironment:
		return "🌿"
	default:
		return "·"
	}
}

// iconChoices lists the selectable icon kinds for the topic form.
func iconChoices() []api.TopicIcon {
	return []api.TopicIcon{
		api.IconEconomy,
		api.IconSecurity,
		api.IconHealth,
		api.IconEducation,
		api.IconEnvironment,
	}
}

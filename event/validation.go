package event

import "fmt"

// FieldError 描述单个字段的校验失败。
type FieldError struct {
	Field string `json:"field"`
	Msg   string `json:"message"`
}

func (e FieldError) Error() string { return fmt.Sprintf("%s: %s", e.Field, e.Msg) }

// Validate 对单条事件做纯校验：相同输入永远得到相同结论，
// 且必须发生在匿名化之前。
func Validate(p *Payload) []FieldError {
	var errs []FieldError

	if p.SiteID == "" {
		errs = append(errs, FieldError{"site_id", "required"})
	}

	switch Kind(p.Kind) {
	case KindPageview, KindCustom:
	case "":
		errs = append(errs, FieldError{"type", "required"})
	default:
		errs = append(errs, FieldError{"type", "must be pageview or custom"})
	}

	if p.URL == "" {
		errs = append(errs, FieldError{"url", "required"})
	}

	if p.ScreenWidth < 0 {
		errs = append(errs, FieldError{"screen_width", "must be positive"})
	}
	if p.ScreenHeight < 0 {
		errs = append(errs, FieldError{"screen_height", "must be positive"})
	}
	if len(p.Language) > MaxLanguageLen {
		errs = append(errs, FieldError{"language", fmt.Sprintf("max length %d", MaxLanguageLen)})
	}

	if Kind(p.Kind) == KindCustom {
		if p.Name == "" {
			errs = append(errs, FieldError{"name", "required for custom events"})
		} else if len(p.Name) > MaxNameLen {
			errs = append(errs, FieldError{"name", fmt.Sprintf("max length %d", MaxNameLen)})
		}
		if len(p.Category) > MaxCategoryLen {
			errs = append(errs, FieldError{"category", fmt.Sprintf("max length %d", MaxCategoryLen)})
		}
		if len(p.Value) > MaxValueLen {
			errs = append(errs, FieldError{"value", fmt.Sprintf("max length %d", MaxValueLen)})
		}
	}

	return errs
}

package bot

import (
	"testing"

	"gourmetbot/internal/model"
)

func TestReserveMarkupCarriesRef(t *testing.T) {
	markup := reserveMarkup(model.LangEN, 5)
	if len(markup.InlineKeyboard) != 1 || len(markup.InlineKeyboard[0]) != 1 {
		t.Fatalf("unexpected keyboard shape %+v", markup.InlineKeyboard)
	}
	btn := markup.InlineKeyboard[0][0]
	if btn.Unique != actReserve || btn.Data != "5" {
		t.Fatalf("button = %q/%q", btn.Unique, btn.Data)
	}
	if btn.Text != "Reserve" {
		t.Fatalf("label = %q, expected the English one", btn.Text)
	}
}

func TestDecisionMarkup(t *testing.T) {
	markup := decisionMarkup("4242")
	if len(markup.InlineKeyboard) != 1 || len(markup.InlineKeyboard[0]) != 2 {
		t.Fatalf("confirm and reject must share one row, got %+v", markup.InlineKeyboard)
	}
	confirm, reject := markup.InlineKeyboard[0][0], markup.InlineKeyboard[0][1]
	if confirm.Unique != actConfirm || confirm.Data != "4242" {
		t.Fatalf("confirm button = %q/%q", confirm.Unique, confirm.Data)
	}
	if reject.Unique != actReject || reject.Data != "4242" {
		t.Fatalf("reject button = %q/%q", reject.Unique, reject.Data)
	}
}

func TestLanguageMarkupOffersBothLanguages(t *testing.T) {
	markup := languageMarkup()
	if len(markup.InlineKeyboard) != 1 || len(markup.InlineKeyboard[0]) != 2 {
		t.Fatalf("unexpected keyboard shape %+v", markup.InlineKeyboard)
	}
	seen := map[string]bool{}
	for _, btn := range markup.InlineKeyboard[0] {
		if btn.Unique != actLang {
			t.Fatalf("unexpected unique %q", btn.Unique)
		}
		seen[btn.Data] = true
	}
	if !seen["ru"] || !seen["en"] {
		t.Fatalf("expected ru and en buttons, got %v", seen)
	}
}

func TestByLanguage(t *testing.T) {
	groups := byLanguage([]model.User{
		{ID: 1, Language: model.LangRU},
		{ID: 2, Language: model.LangEN},
		{ID: 3, Language: ""},
		{ID: 4, Language: model.LangEN},
	})
	if got := groups[model.LangRU]; len(got) != 2 {
		t.Fatalf("ru group = %v", got)
	}
	if got := groups[model.LangEN]; len(got) != 2 {
		t.Fatalf("en group = %v", got)
	}
}

package locale

import (
	"strings"
	"testing"

	"gourmetbot/internal/model"
)

func TestTFormatsArguments(t *testing.T) {
	got := T(model.LangEN, PaymentSummary, "Pilaf", "804a", 3, 600, 600)
	for _, want := range []string{"Pilaf", "804a", "3", "600"} {
		if !strings.Contains(got, want) {
			t.Fatalf("summary %q missing %q", got, want)
		}
	}
}

func TestTFallsBackToRussian(t *testing.T) {
	const fake Key = "missing_key"
	if got := T(model.LangEN, fake); got != string(fake) {
		t.Fatalf("unknown key must render as its name, got %q", got)
	}
	if ru := T(model.LangRU, Greeting, "ru"); ru == "" {
		t.Fatal("greeting must render")
	}
}

func TestCatalogsCoverSameKeys(t *testing.T) {
	for key := range ru {
		if _, ok := en[key]; !ok {
			t.Errorf("key %s missing from the English catalog", key)
		}
	}
	for key := range en {
		if _, ok := ru[key]; !ok {
			t.Errorf("key %s missing from the Russian catalog", key)
		}
	}
}

func TestAnnouncementCard(t *testing.T) {
	ann := model.Announcement{Ref: 5, Dish: "Плов", Description: "С бараниной", Price: 200, Time: "18:00", Broadcast: "Только сегодня"}

	public := AnnouncementCard(ann, false)
	if strings.Contains(public, "Только сегодня") {
		t.Fatal("broadcast note must stay off the public card")
	}
	admin := AnnouncementCard(ann, true)
	if !strings.Contains(admin, "Только сегодня") {
		t.Fatal("admin preview must include the broadcast note")
	}
	for _, want := range []string{"Плов", "200", "18:00"} {
		if !strings.Contains(public, want) {
			t.Fatalf("card %q missing %q", public, want)
		}
	}
}

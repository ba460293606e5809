package models

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestPlaceJSONRoundTrip(t *testing.T) {
	in := Place{
		ID:           3,
		Name:         "Кофемания",
		Category:     "Кафе, Ресторан",
		Description:  "Сеть кофеен",
		Features:     map[string]any{"Wi-Fi": true, "Средний счёт": "1500 ₽"},
		Address:      "Москва, Тверская 1",
		Website:      "https://example.ru",
		Phone:        "+7 495 000-00-00",
		Rating:       "4.8",
		ReviewsCount: "1611",
		WorkingHours: []string{"Mo-Fr 09:00-22:00"},
		FolderPath:   "out/003_Кофемания",
		Link:         "https://yandex.ru/maps/org/x/3/",
		SocialMedia:  []string{"https://vk.com/x"},
		Photos:       []string{"out/003/photos/photo_1.jpg"},
		Reviews:      []Review{{Author: "Анна", Text: "Отлично", Rating: "5", Date: "вчера"}},
		SearchQuery:  "кофейни в Москве",
	}

	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var out Place
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if !reflect.DeepEqual(in, out) {
		t.Errorf("round trip mismatch:\n in: %+v\nout: %+v", in, out)
	}
}

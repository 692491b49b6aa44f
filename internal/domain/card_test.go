package domain

import "testing"

func TestCard_HasChoice(t *testing.T) {
	t.Parallel()

	card := Card{
		Prompt:  "Car",
		Answer:  "Машина",
		Choices: []string{"Вода", "Машина", "Мир"},
	}

	if !card.HasChoice("Машина") {
		t.Error("expected HasChoice to find the answer")
	}
	if !card.HasChoice("Вода") {
		t.Error("expected HasChoice to find a distractor")
	}
	if card.HasChoice("Молоко") {
		t.Error("HasChoice matched a text that was never displayed")
	}
}

func TestCard_IsCorrect(t *testing.T) {
	t.Parallel()

	card := Card{Prompt: "Car", Answer: "Машина", Choices: []string{"Машина"}}

	if !card.IsCorrect("Машина") {
		t.Error("exact answer not accepted")
	}
	if card.IsCorrect("машина") {
		t.Error("comparison must be case-sensitive, as displayed")
	}
}

func TestUser_Validate(t *testing.T) {
	t.Parallel()

	u := User{ID: 42, Name: "Ivan"}
	if err := u.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	if err := (User{ID: 0, Name: "Ivan"}).Validate(); err == nil {
		t.Error("expected error for zero user id")
	}
	if err := (User{ID: 42, Name: ""}).Validate(); err == nil {
		t.Error("expected error for empty name")
	}
}

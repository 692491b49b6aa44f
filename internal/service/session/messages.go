package session

import (
	"fmt"
	"strings"
)

// Command labels rendered as reply-keyboard buttons alongside the choices.
const (
	CommandNext       = "Дальше ⏭"
	CommandAddWord    = "Добавить слово ➕"
	CommandDeleteWord = "Удалить слово🔙"
)

// Commands returns the static command labels in display order.
func Commands() []string {
	return []string{CommandNext, CommandAddWord, CommandDeleteWord}
}

const (
	msgPromptNewWord      = "Напишите новое английское слово"
	msgPromptDeleteTarget = "Напишите слово, которое надо удалить"
	msgDuplicate          = "Такое слово уже есть в словаре"
	msgNotInDict          = "Такого слова нет в словаре"
	msgSomethingWrong     = "Что-то пошло не так, попробуйте ещё раз"
	wrongChoiceMark       = "❌"
)

func msgGreeting(name string) string {
	return fmt.Sprintf("Ну что, %s, поучим Английский?", name)
}

func msgChooseTranslation(prompt string) string {
	return "Выбери перевод слова:\n " + prompt
}

func msgCorrect(answer, prompt string) string {
	return joinLines("Отлично!❤", fmt.Sprintf("%s -> %s", answer, prompt))
}

func msgWrong(prompt string) string {
	return joinLines("Допущена ошибка!",
		fmt.Sprintf("Попробуй ещё раз вспомнить слово %s", prompt))
}

func msgPromptTranslation(word string) string {
	return "Отлично, теперь введите значение слова " + word
}

func msgAdded(word string, count int) string {
	return fmt.Sprintf("Отлично, запишем слово %s. в словаре уже %d ваших слов", word, count)
}

func msgDeleted(word string, count int) string {
	return fmt.Sprintf("Отлично, вы удалили слово %s. в словаре уже %d ваших слов", word, count)
}

func joinLines(lines ...string) string {
	nonEmpty := lines[:0:0]
	for _, l := range lines {
		if l != "" {
			nonEmpty = append(nonEmpty, l)
		}
	}
	return strings.Join(nonEmpty, "\n")
}

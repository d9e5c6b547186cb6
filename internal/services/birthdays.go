package services

import (
	"cmp"
	"slices"
	"time"

	"contacts_backend/internal/models"
)

const (
	DefaultBirthdayWindow = 7
	MaxBirthdayWindow     = 366
)

// BirthdayMatch - контакт с ближайшим днем рождения внутри окна
type BirthdayMatch struct {
	Contact    models.Contact
	Next       time.Time
	DaysUntil  int
	TurningAge int
}

// UpcomingBirthdays выбирает контакты, у которых следующий день рождения попадает
// в окно [today, today+days] включительно. Уже прошедший в этом году день рождения
// переносится на следующий год, 29 февраля в невисокосный год считается 28 февраля.
// Результат отсортирован по дате, затем по фамилии и имени.
func UpcomingBirthdays(contacts []models.Contact, today time.Time, days int) []BirthdayMatch {
	if days < 0 {
		return nil
	}
	start := truncateToDate(today)

	matches := make([]BirthdayMatch, 0)
	for _, c := range contacts {
		dob, ok := c.Birthday()
		if !ok {
			continue
		}

		next := nextBirthday(dob, start)
		until := int(next.Sub(start).Hours() / 24)
		if until > days {
			continue
		}

		matches = append(matches, BirthdayMatch{
			Contact:    c,
			Next:       next,
			DaysUntil:  until,
			TurningAge: next.Year() - dob.Year(),
		})
	}

	slices.SortStableFunc(matches, func(a, b BirthdayMatch) int {
		if c := a.Next.Compare(b.Next); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Contact.LastName, b.Contact.LastName); c != 0 {
			return c
		}
		return cmp.Compare(a.Contact.FirstName, b.Contact.FirstName)
	})
	return matches
}

// nextBirthday - первая дата с месяцем и днем dob, не раньше today
func nextBirthday(dob, today time.Time) time.Time {
	next := birthdayInYear(dob, today.Year())
	if next.Before(today) {
		next = birthdayInYear(dob, today.Year()+1)
	}
	return next
}

func birthdayInYear(dob time.Time, year int) time.Time {
	month, day := dob.Month(), dob.Day()
	if month == time.February && day == 29 && !isLeapYear(year) {
		day = 28
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func isLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// truncateToDate отбрасывает время, календарная дата берется в исходной зоне
func truncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

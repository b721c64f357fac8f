package model

import (
	"fmt"
	"strings"
)

// Period는 영업시간의 오전/오후 구분
type Period string

const (
	PeriodAM Period = "AM"
	PeriodPM Period = "PM"
)

func (p Period) Valid() bool {
	return p == PeriodAM || p == PeriodPM
}

// Dealer는 딜러 컬렉션에 저장되는 단일 레코드. JSON 필드명이 곧 저장 포맷이다.
type Dealer struct {
	ID          int64  `json:"id"`          // 생성 시 할당, 이후 불변
	DealerName  string `json:"dealerName"`  // 딜러명
	Address     string `json:"address"`     // 주소
	Email       string `json:"email"`       // 이메일
	Phone       string `json:"phone"`       // 연락처
	StartTime   string `json:"startTime"`   // 영업 시작 (HH:MM)
	StartPeriod Period `json:"startPeriod"` // AM / PM
	EndTime     string `json:"endTime"`     // 영업 종료 (HH:MM)
	EndPeriod   Period `json:"endPeriod"`   // AM / PM
	Hours       string `json:"hours"`       // FormatHours 결과, 직접 수정 금지
}

// DealerFormValues는 생성/수정 폼 입력값. hours는 받지 않는다.
type DealerFormValues struct {
	DealerName  string `json:"dealerName" validate:"required"`
	Address     string `json:"address" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Phone       string `json:"phone" validate:"required"`
	StartTime   string `json:"startTime" validate:"required,hhmm"`
	StartPeriod Period `json:"startPeriod" validate:"oneof=AM PM"`
	EndTime     string `json:"endTime" validate:"required,hhmm"`
	EndPeriod   Period `json:"endPeriod" validate:"oneof=AM PM"`
}

// DealerImportRow 가져오기 한 행. Row는 원본 시트의 행 번호 (헤더 = 1)
type DealerImportRow struct {
	Row  int
	Form DealerFormValues
}

// FormatHours derives the operating hours label, e.g. "09:00 AM - 06:00 PM".
func FormatHours(startTime string, startPeriod Period, endTime string, endPeriod Period) string {
	return fmt.Sprintf("%s %s - %s %s", startTime, startPeriod, endTime, endPeriod)
}

// Normalize trims surrounding whitespace and upper-cases the periods.
func (f DealerFormValues) Normalize() DealerFormValues {
	return DealerFormValues{
		DealerName:  strings.TrimSpace(f.DealerName),
		Address:     strings.TrimSpace(f.Address),
		Email:       strings.TrimSpace(f.Email),
		Phone:       strings.TrimSpace(f.Phone),
		StartTime:   strings.TrimSpace(f.StartTime),
		StartPeriod: Period(strings.ToUpper(strings.TrimSpace(string(f.StartPeriod)))),
		EndTime:     strings.TrimSpace(f.EndTime),
		EndPeriod:   Period(strings.ToUpper(strings.TrimSpace(string(f.EndPeriod)))),
	}
}

// NewDealer builds a record from form values with hours recomputed.
func NewDealer(id int64, f DealerFormValues) Dealer {
	d := Dealer{ID: id}
	d.Apply(f)
	return d
}

// Apply overwrites every field except ID and recomputes Hours.
func (d *Dealer) Apply(f DealerFormValues) {
	d.DealerName = f.DealerName
	d.Address = f.Address
	d.Email = f.Email
	d.Phone = f.Phone
	d.StartTime = f.StartTime
	d.StartPeriod = f.StartPeriod
	d.EndTime = f.EndTime
	d.EndPeriod = f.EndPeriod
	d.Hours = FormatHours(f.StartTime, f.StartPeriod, f.EndTime, f.EndPeriod)
}

// FormValues returns the editable fields of the record, used to prefill the edit form.
func (d Dealer) FormValues() DealerFormValues {
	return DealerFormValues{
		DealerName:  d.DealerName,
		Address:     d.Address,
		Email:       d.Email,
		Phone:       d.Phone,
		StartTime:   d.StartTime,
		StartPeriod: d.StartPeriod,
		EndTime:     d.EndTime,
		EndPeriod:   d.EndPeriod,
	}
}

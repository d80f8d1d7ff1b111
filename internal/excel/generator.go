package excel

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/nurpe/contracts-service/internal/model"
)

const (
	summarySheet  = "Сводка"
	registrySheet = "Реестр"
	maxSheetName  = 31
)

var registryHeaders = []string{
	"Номер",
	"Наименование",
	"Дата",
	"Тип договора",
	"Покупатель",
	"Продавец",
	"Компания",
	"Ответственный",
	"Создан",
	"Изменен",
}

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// Generate writes a summary sheet, the full registry and one sheet per contract type.
func (g *Generator) Generate(registry model.ContractRegistry) ([]byte, error) {
	file := excelize.NewFile()
	defer file.Close()

	file.SetSheetName("Sheet1", summarySheet)
	groups := groupByType(registry.Contracts)
	if err := g.writeSummary(file, registry, groups); err != nil {
		return nil, err
	}

	if _, err := file.NewSheet(registrySheet); err != nil {
		return nil, err
	}
	if err := g.writeContracts(file, registrySheet, registry.Contracts); err != nil {
		return nil, err
	}

	used := map[string]struct{}{summarySheet: {}, registrySheet: {}}
	for _, group := range groups {
		name := buildSheetName(group.label, used)
		used[name] = struct{}{}
		if _, err := file.NewSheet(name); err != nil {
			return nil, err
		}
		if err := g.writeContracts(file, name, group.contracts); err != nil {
			return nil, err
		}
	}

	file.SetActiveSheet(0)
	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g *Generator) writeSummary(file *excelize.File, registry model.ContractRegistry, groups []typeGroup) error {
	sheet := summarySheet
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	set("A1", "Реестр договоров")
	set("A2", "Сформирован")
	set("B2", formatDateTime(registry.GeneratedAt))
	set("A3", "Количество договоров")
	set("B3", len(registry.Contracts))
	if registry.Truncated {
		set("A4", "Внимание")
		set("B4", fmt.Sprintf("выгружены первые %d договоров", registry.Limit))
	}

	tableRow := 6
	set(fmt.Sprintf("A%d", tableRow), "Тип договора")
	set(fmt.Sprintf("B%d", tableRow), "Количество")
	for i, group := range groups {
		row := tableRow + 1 + i
		set(fmt.Sprintf("A%d", row), group.label)
		set(fmt.Sprintf("B%d", row), len(group.contracts))
	}

	_ = file.SetColWidth(sheet, "A", "A", 40)
	_ = file.SetColWidth(sheet, "B", "B", 30)
	return nil
}

func (g *Generator) writeContracts(file *excelize.File, sheet string, contracts []model.Contract) error {
	for i, header := range registryHeaders {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := file.SetCellValue(sheet, cell, header); err != nil {
			return err
		}
	}

	for i, contract := range contracts {
		values := []interface{}{
			contract.Number,
			contract.Name,
			formatDate(contract.Date),
			typeLabel(contract),
			contract.BuyerID.String(),
			contract.SellerID.String(),
			contract.CompanyID.String(),
			contract.ResponsibleID.String(),
			formatDateTime(contract.CreatedAt),
			formatDateTime(contract.ModifiedAt),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := file.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
	}

	_ = file.SetColWidth(sheet, "A", "A", 14)
	_ = file.SetColWidth(sheet, "B", "B", 40)
	_ = file.SetColWidth(sheet, "C", "C", 12)
	_ = file.SetColWidth(sheet, "D", "D", 32)
	_ = file.SetColWidth(sheet, "E", "H", 38)
	_ = file.SetColWidth(sheet, "I", "J", 20)
	return nil
}

type typeGroup struct {
	label     string
	contracts []model.Contract
}

func groupByType(contracts []model.Contract) []typeGroup {
	index := map[string]int{}
	var groups []typeGroup
	for _, contract := range contracts {
		label := typeLabel(contract)
		i, ok := index[label]
		if !ok {
			i = len(groups)
			index[label] = i
			groups = append(groups, typeGroup{label: label})
		}
		groups[i].contracts = append(groups[i].contracts, contract)
	}
	sort.SliceStable(groups, func(a, b int) bool { return groups[a].label < groups[b].label })
	return groups
}

func typeLabel(contract model.Contract) string {
	if contract.ContractType != nil && strings.TrimSpace(contract.ContractType.Name) != "" {
		return contract.ContractType.Name
	}
	return contract.ContractTypeID
}

func buildSheetName(label string, used map[string]struct{}) string {
	base := truncateRunes(sanitizeSheetName(label), maxSheetName)

	candidate := base
	for counter := 2; ; counter++ {
		if _, exists := used[candidate]; !exists {
			return candidate
		}
		suffix := fmt.Sprintf("-%d", counter)
		candidate = truncateRunes(base, maxSheetName-len(suffix)) + suffix
	}
}

func sanitizeSheetName(value string) string {
	replacer := strings.NewReplacer(
		"[", "-",
		"]", "-",
		":", "-",
		"*", "-",
		"?", "-",
		"/", "-",
		"\\", "-",
	)
	value = strings.TrimSpace(replacer.Replace(value))
	if value == "" {
		return "Лист"
	}
	return value
}

// truncateRunes cuts by characters; excel limits sheet names in characters, not bytes.
func truncateRunes(value string, limit int) string {
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	return string(runes[:limit])
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

func formatDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02 15:04:05")
}

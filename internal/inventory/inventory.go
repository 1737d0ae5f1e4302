// Package inventory exports a network's VLAN plan as an XLSX workbook.
package inventory

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/Flarenzy/fortimigrate/internal/domain"
)

const (
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	VLANSheet        = "VLANs"
	ReservationSheet = "Reservations"
)

var (
	vlanHeader        = []any{"Name", "VLAN ID", "Subnet", "Appliance IP", "DHCP Handling", "Group Policy"}
	reservationHeader = []any{"VLAN ID", "Kind", "Start / IP", "End / MAC", "Name / Comment"}
)

// Workbook renders the VLANs sheet and the Reservations sheet for network.
func Workbook(network domain.Network) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", VLANSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if err := writeSheetRows(f, VLANSheet, vlanRows(network)); err != nil {
		return nil, err
	}

	if _, err := f.NewSheet(ReservationSheet); err != nil {
		return nil, fmt.Errorf("add sheet: %w", err)
	}
	if err := writeSheetRows(f, ReservationSheet, reservationRows(network)); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf, nil
}

func vlanRows(network domain.Network) [][]any {
	rows := [][]any{vlanHeader}
	for _, v := range network.VLANs {
		rows = append(rows, []any{
			v.Name,
			v.ID,
			v.Subnet.String(),
			v.ApplianceIP.String(),
			string(v.DHCPHandling),
			v.GroupPolicyID,
		})
	}
	return rows
}

func reservationRows(network domain.Network) [][]any {
	rows := [][]any{reservationHeader}
	for _, v := range network.VLANs {
		id := strconv.Itoa(v.ID)
		for _, f := range v.FixedAssignments {
			rows = append(rows, []any{id, "fixed", f.IP.String(), f.MAC, f.Name})
		}
		for _, r := range v.ReservedRanges {
			rows = append(rows, []any{id, "reserved", r.Start.String(), r.End.String(), r.Comment})
		}
	}
	return rows
}

func writeSheetRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

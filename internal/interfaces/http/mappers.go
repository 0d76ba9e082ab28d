package http

import (
	"github.com/jhoicas/field-inventory/internal/application/dto"
	"github.com/jhoicas/field-inventory/internal/application/inventory"
	"github.com/jhoicas/field-inventory/internal/domain/entity"
)

func toRecordDTO(r *entity.InventoryRecord) *dto.InventoryRecordDTO {
	if r == nil {
		return nil
	}
	return &dto.InventoryRecordDTO{
		ID:                 r.ID,
		LocationID:         r.LocationID,
		ItemTypeID:         r.ItemTypeID,
		StatusID:           r.StatusID,
		SlocID:             r.SlocID,
		AssignedCrewID:     r.AssignedCrewID,
		AreaID:             r.AreaID,
		Quantity:           r.Quantity,
		MfgrSerialNumber:   r.MfgrSerialNumber,
		TilsonSerialNumber: r.TilsonSerialNumber,
		Notes:              r.Notes,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
	}
}

func toActionResponse(res *inventory.ActionResult) dto.ActionResponse {
	out := dto.ActionResponse{
		Action:           res.Action,
		Outcome:          res.Outcome,
		Path:             res.Path,
		Record:           toRecordDTO(res.Record),
		DeletedIDs:       res.DeletedIDs,
		ConsolidatedFrom: res.ConsolidatedFrom,
		Ambiguous:        res.Ambiguous,
		TransactionID:    res.TransactionID,
	}
	for _, c := range res.Created {
		out.Created = append(out.Created, toRecordDTO(c))
	}
	return out
}

func toTransactionDTO(t *entity.TransactionRecord) dto.TransactionDTO {
	return dto.TransactionDTO{
		ID:              t.ID,
		InventoryID:     t.InventoryID,
		TransactionType: t.TransactionType,
		Action:          t.Action,
		ClientName:      t.ClientName,
		MarketName:      t.MarketName,
		SlocName:        t.SlocName,
		ItemTypeName:    t.ItemTypeName,
		CategoryName:    t.CategoryName,
		LocationName:    t.LocationName,
		OldLocationName: t.OldLocationName,
		StatusName:      t.StatusName,
		OldStatusName:   t.OldStatusName,
		CrewName:        t.CrewName,
		OldCrewName:     t.OldCrewName,
		AreaName:        t.AreaName,
		OldAreaName:     t.OldAreaName,
		Quantity:        t.Quantity,
		OldQuantity:     t.OldQuantity,
		UserEmail:       t.UserEmail,
		UserID:          t.UserID,
		DateTime:        t.DateTime,
		Notes:           t.Notes,
	}
}

func toIntegrityDTO(r *inventory.IntegrityReport) dto.IntegrityReportDTO {
	out := dto.IntegrityReportDTO{Duplicates: []dto.DuplicateGroupDTO{}}
	for _, g := range r.Groups {
		ids := make([]int64, 0, len(g.Records))
		for _, rec := range g.Records {
			ids = append(ids, rec.ID)
		}
		out.Duplicates = append(out.Duplicates, dto.DuplicateGroupDTO{Signature: g.Key, RecordIDs: ids})
	}
	for _, rep := range r.Repaired {
		out.Repaired = append(out.Repaired, dto.RepairedGroupDTO{
			Signature:     rep.Key,
			TargetID:      rep.TargetID,
			MergedIDs:     rep.MergedIDs,
			TransactionID: rep.TransactionID,
		})
	}
	return out
}

func toPatch(in dto.PatchRecordRequest) entity.InventoryPatch {
	p := entity.InventoryPatch{
		LocationID:         in.LocationID,
		ItemTypeID:         in.ItemTypeID,
		StatusID:           in.StatusID,
		SlocID:             in.SlocID,
		Quantity:           in.Quantity,
		MfgrSerialNumber:   in.MfgrSerialNumber,
		TilsonSerialNumber: in.TilsonSerialNumber,
		Notes:              in.Notes,
	}
	switch {
	case in.ClearAssignedCrew:
		p.AssignedCrewID = entity.ClearID()
	case in.AssignedCrewID != nil:
		p.AssignedCrewID = entity.SetID(*in.AssignedCrewID)
	}
	switch {
	case in.ClearArea:
		p.AreaID = entity.ClearID()
	case in.AreaID != nil:
		p.AreaID = entity.SetID(*in.AreaID)
	}
	return p
}

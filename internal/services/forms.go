package services

import (
	"bytes"
	"context"
	"fmt"
	"strconv"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/google/uuid"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/yungbote/doktrace-backend/internal/logger"
	apperrors "github.com/yungbote/doktrace-backend/internal/pkg/errors"
	"github.com/yungbote/doktrace-backend/internal/repos"
	"github.com/yungbote/doktrace-backend/internal/types"
)

// FormRenderService produces the printable blank log sheet for one stage of
// a batch. Operators fill these by hand on the floor; the completed sheet is
// what gets photographed and fed back through OCR.
type FormRenderService interface {
	RenderStageForm(ctx context.Context, batchID uuid.UUID, stageID uuid.UUID) ([]byte, error)
}

type formRenderService struct {
	log         *logger.Logger
	batchRepo   repos.BatchRepo
	productRepo repos.ProductRepo
	regular     font.Face
	bold        font.Face
	title       font.Face
}

const (
	formWidth   = 1240
	formMargin  = 60.0
	formRowH    = 64.0
	formHeaderH = 220.0
)

func NewFormRenderService(baseLog *logger.Logger, batchRepo repos.BatchRepo, productRepo repos.ProductRepo) (FormRenderService, error) {
	serviceLog := baseLog.With("service", "FormRenderService")

	regularFont, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse regular font: %w", err)
	}
	boldFont, err := truetype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse bold font: %w", err)
	}

	return &formRenderService{
		log:         serviceLog,
		batchRepo:   batchRepo,
		productRepo: productRepo,
		regular:     truetype.NewFace(regularFont, &truetype.Options{Size: 22}),
		bold:        truetype.NewFace(boldFont, &truetype.Options{Size: 22}),
		title:       truetype.NewFace(boldFont, &truetype.Options{Size: 34}),
	}, nil
}

func (s *formRenderService) RenderStageForm(ctx context.Context, batchID uuid.UUID, stageID uuid.UUID) ([]byte, error) {
	batch, err := s.batchRepo.GetByID(ctx, nil, batchID)
	if err != nil {
		return nil, err
	}
	snapshot, err := decodeSnapshot(batch)
	if err != nil {
		return nil, err
	}
	stage := snapshot.Stage(stageID)
	if stage == nil {
		return nil, &apperrors.ConfigurationError{
			Key:    "stage:" + stageID.String(),
			Reason: "stage not present in batch flow snapshot",
		}
	}
	product, err := s.productRepo.GetByID(ctx, nil, batch.ProductID)
	if err != nil {
		return nil, err
	}

	height := formHeaderH + float64(len(stage.Fields)+1)*formRowH + 120
	if stage.IsQcGate {
		height += 140
	}
	dc := gg.NewContext(formWidth, int(height))
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.SetRGB(0, 0, 0)

	s.drawHeader(dc, batch, product, stage)
	y := s.drawFieldTable(dc, stage, formHeaderH)
	if stage.IsQcGate {
		s.drawSignatureBlock(dc, y+40)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode form PNG: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *formRenderService) drawHeader(dc *gg.Context, batch *types.Batch, product *types.Product, stage *types.SnapshotStage) {
	dc.SetFontFace(s.title)
	dc.DrawString(fmt.Sprintf("%s / %s", product.Name, stage.Name), formMargin, 70)

	dc.SetFontFace(s.bold)
	dc.DrawString("Batch:", formMargin, 120)
	dc.DrawString("Date:", formMargin, 156)
	dc.DrawString("Operator:", 640, 120)
	dc.DrawString("Stage v:", 640, 156)

	dc.SetFontFace(s.regular)
	dc.DrawString(batch.BatchCode, formMargin+120, 120)
	dc.DrawString(batch.CreatedAt.Format("02 Jan 2006"), formMargin+120, 156)
	dc.DrawString("____________________", 640+140, 120)
	dc.DrawString(strconv.Itoa(stage.Version), 640+140, 156)

	dc.SetLineWidth(2)
	dc.DrawLine(formMargin, 184, formWidth-formMargin, 184)
	dc.Stroke()
}

// drawFieldTable renders one row per snapshot field with label, unit, the
// allowed range, and a blank write-in cell. Returns the y coordinate below
// the table.
func (s *formRenderService) drawFieldTable(dc *gg.Context, stage *types.SnapshotStage, top float64) float64 {
	colLabel := formMargin
	colUnit := 560.0
	colRange := 700.0
	colValue := 920.0
	right := float64(formWidth) - formMargin

	y := top
	dc.SetFontFace(s.bold)
	dc.DrawString("Field", colLabel+8, y+40)
	dc.DrawString("Unit", colUnit+8, y+40)
	dc.DrawString("Range", colRange+8, y+40)
	dc.DrawString("Reading", colValue+8, y+40)
	y += formRowH

	dc.SetFontFace(s.regular)
	for _, field := range stage.Fields {
		label := field.LabelEn
		if field.LabelHi != "" {
			label = fmt.Sprintf("%s / %s", field.LabelEn, field.LabelHi)
		}
		dc.DrawString(label, colLabel+8, y+40)
		dc.DrawString(field.Unit, colUnit+8, y+40)
		dc.DrawString(rangeLabel(field), colRange+8, y+40)

		dc.SetLineWidth(1)
		dc.DrawRectangle(colValue, y+12, right-colValue, formRowH-24)
		dc.Stroke()
		y += formRowH
	}

	dc.SetLineWidth(1)
	for i := 0; i <= len(stage.Fields)+1; i++ {
		ly := top + float64(i)*formRowH
		dc.DrawLine(colLabel, ly, right, ly)
	}
	for _, x := range []float64{colLabel, colUnit, colRange, colValue, right} {
		dc.DrawLine(x, top, x, y)
	}
	dc.Stroke()
	return y
}

func (s *formRenderService) drawSignatureBlock(dc *gg.Context, top float64) {
	dc.SetFontFace(s.bold)
	dc.DrawString("QC sign-off", formMargin, top+30)

	dc.SetFontFace(s.regular)
	dc.DrawString("Approver: ______________________", formMargin, top+80)
	dc.DrawString("Signature: ______________________", 640, top+80)
	dc.DrawString("Time: ______________", formMargin, top+124)
}

func rangeLabel(field types.SnapshotField) string {
	if field.FieldType != types.FieldTypeNumber {
		return ""
	}
	if field.MinValue == nil && field.MaxValue == nil {
		return ""
	}
	return fmt.Sprintf("%s - %s", formatBound(field.MinValue), formatBound(field.MaxValue))
}

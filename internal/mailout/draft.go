// Package mailout exports a rendered work order as an e-mail draft
// (.eml) that any mail client can open and send.
package mailout

import (
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/emersion/go-message/mail"

	"github.com/SaYm0n/Gest-o-de-Ordens-de-Servi-o/internal/model"
	"github.com/SaYm0n/Gest-o-de-Ordens-de-Servi-o/internal/numfmt"
)

// Draft is a message with a single attached document.
type Draft struct {
	From    *mail.Address
	To      []*mail.Address
	Subject string
	Date    time.Time
	Text    string

	AttachmentName string
	AttachmentType string
	Attachment     []byte
}

// WriteDraft writes d as a multipart/mixed RFC 5322 message.
func WriteDraft(w io.Writer, d Draft) error {
	var h mail.Header
	h.SetDate(d.Date)
	h.SetSubject(d.Subject)
	if d.From != nil {
		h.SetAddressList("From", []*mail.Address{d.From})
	}
	if len(d.To) > 0 {
		h.SetAddressList("To", d.To)
	}
	h.Set("X-Unsent", "1")

	mw, err := mail.CreateWriter(w, h)
	if err != nil {
		return fmt.Errorf("creating message writer: %w", err)
	}

	tw, err := mw.CreateInline()
	if err != nil {
		return fmt.Errorf("creating inline part: %w", err)
	}
	var th mail.InlineHeader
	th.SetContentType("text/plain", map[string]string{"charset": "utf-8"})
	pw, err := tw.CreatePart(th)
	if err != nil {
		return fmt.Errorf("creating text part: %w", err)
	}
	if _, err := io.WriteString(pw, d.Text); err != nil {
		return fmt.Errorf("writing text part: %w", err)
	}
	pw.Close()
	tw.Close()

	if d.AttachmentName != "" {
		var ah mail.AttachmentHeader
		ctype, params, err := mime.ParseMediaType(d.AttachmentType)
		if err != nil {
			ctype, params = "application/octet-stream", nil
		}
		ah.SetContentType(ctype, params)
		ah.SetFilename(d.AttachmentName)

		aw, err := mw.CreateAttachment(ah)
		if err != nil {
			return fmt.Errorf("creating attachment: %w", err)
		}
		if _, err := aw.Write(d.Attachment); err != nil {
			return fmt.Errorf("writing attachment: %w", err)
		}
		aw.Close()
	}

	if err := mw.Close(); err != nil {
		return fmt.Errorf("closing message: %w", err)
	}
	return nil
}

// ForWorkOrder builds the draft sent to a client with the rendered
// document at docPath attached.
func ForWorkOrder(w model.WorkOrder, shop model.ShopConfig, to, docPath string, now time.Time) (Draft, error) {
	data, err := os.ReadFile(docPath)
	if err != nil {
		return Draft{}, fmt.Errorf("reading document: %w", err)
	}

	d := Draft{
		Subject:        fmt.Sprintf("Ordem de Serviço %s - %s", w.ID, w.Vehicle.Plate),
		Date:           now,
		Text:           body(w, shop),
		AttachmentName: filepath.Base(docPath),
		AttachmentType: mime.TypeByExtension(filepath.Ext(docPath)),
		Attachment:     data,
	}
	if shop.Email != "" {
		d.From = &mail.Address{Name: shop.Name, Address: shop.Email}
	}
	if to = strings.TrimSpace(to); to != "" {
		addrs, err := mail.ParseAddressList(to)
		if err != nil {
			return Draft{}, fmt.Errorf("parsing recipient %q: %w", to, err)
		}
		d.To = addrs
	}
	return d, nil
}

func body(w model.WorkOrder, shop model.ShopConfig) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Olá %s,\n\n", w.Client.Name)
	fmt.Fprintf(&b, "Segue em anexo a ordem de serviço %s do veículo %s", w.ID, w.Vehicle.Plate)
	if w.Vehicle.Model != "" {
		fmt.Fprintf(&b, " (%s)", strings.TrimSpace(w.Vehicle.Make+" "+w.Vehicle.Model))
	}
	b.WriteString(".\n")
	fmt.Fprintf(&b, "Valor total: R$ %s\n", numfmt.FormatNullMoney(w.Total))
	if w.Status != "" {
		fmt.Fprintf(&b, "Situação: %s\n", w.Status)
	}
	fmt.Fprintf(&b, "\n%s\n", shop.Name)
	if shop.Phone != "" {
		fmt.Fprintf(&b, "%s\n", numfmt.FormatPhone(shop.Phone))
	}
	return b.String()
}

// WriteDraftFile writes d next to the attached document, replacing its
// extension with .eml, and returns the path.
func WriteDraftFile(d Draft, docPath string) (string, error) {
	path := strings.TrimSuffix(docPath, filepath.Ext(docPath)) + ".eml"
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", path, err)
	}
	if err := WriteDraft(f, d); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("closing %s: %w", path, err)
	}
	return path, nil
}

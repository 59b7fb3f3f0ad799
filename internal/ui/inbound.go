package ui

import (
	"context"
	"io"
	"net/url"
	"strconv"

	"inbound-wms-api-server/internal/models"

	"github.com/a-h/templ"
)

// formItemRows là số dòng hàng trống tối thiểu của form tạo mới.
const formItemRows = 3

// ItemValues giữ giá trị thô của một dòng hàng trong form (để hiển thị lại khi lỗi).
type ItemValues struct {
	SKUCode     string
	ProductName string
	Quantity    string
	Unit        string
}

// FormValues là dữ liệu form tạo yêu cầu nhập hàng.
type FormValues struct {
	PONumber     string
	SupplierName string
	RequestDate  string
	ExpectedDate string
	Memo         string
	Items        []ItemValues
}

func statusLabel(p Page, s models.ApprovalStatus) string {
	return p.T("status." + string(s))
}

func inboundForm(p Page, form FormValues) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<section class="create"><h2>`)
		h.text(p.T("inbound.new"))
		h.rawf(`</h2><form method="post" action="%s">`, p.Href("/inbound"))

		field := func(name, labelKey, inputType, value string, required bool) {
			h.rawf(`<label>%s <input type="%s" name="%s" value="%s"`, p.T(labelKey), inputType, name, value)
			if required {
				h.raw(` required`)
			}
			h.raw(`></label>`)
		}
		field("poNumber", "field.poNumber", "text", form.PONumber, true)
		field("supplierName", "field.supplierName", "text", form.SupplierName, true)
		field("requestDate", "field.requestDate", "date", form.RequestDate, false)
		field("expectedDate", "field.expectedDate", "date", form.ExpectedDate, false)
		field("memo", "field.memo", "text", form.Memo, false)

		h.raw(`<fieldset><legend>`)
		h.text(p.T("field.items"))
		h.raw(`</legend>`)
		rows := form.Items
		for len(rows) < formItemRows {
			rows = append(rows, ItemValues{})
		}
		for _, it := range rows {
			h.raw(`<div class="item-row">`)
			h.rawf(`<input name="skuCode" placeholder="%s" value="%s">`, p.T("field.skuCode"), it.SKUCode)
			h.rawf(`<input name="productName" placeholder="%s" value="%s">`, p.T("field.productName"), it.ProductName)
			h.rawf(`<input name="quantity" type="number" min="1" placeholder="%s" value="%s">`, p.T("field.quantity"), it.Quantity)
			h.rawf(`<input name="unit" placeholder="%s" value="%s">`, p.T("field.unit"), it.Unit)
			h.raw(`</div>`)
		}
		h.raw(`</fieldset><button type="submit">`)
		h.text(p.T("action.create"))
		h.raw(`</button></form></section>`)
		return h.err
	})
}

func statusActions(p Page, r models.InboundRequest) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		id := url.PathEscape(r.ID)
		for _, next := range r.ApprovalStatus.Next() {
			h.rawf(`<form method="post" action="%s" class="inline">`, p.Href("/inbound/"+id+"/status"))
			h.rawf(`<input type="hidden" name="status" value="%s">`, next)
			h.rawf(`<input name="reason" placeholder="%s">`, p.T("field.reason"))
			h.raw(`<button type="submit">`)
			h.text(p.T("action.to." + string(next)))
			h.raw(`</button></form>`)
		}
		h.rawf(`<form method="post" action="%s" class="inline">`, p.Href("/inbound/"+id+"/delete"))
		h.raw(`<button type="submit" class="danger">`)
		h.text(p.T("action.delete"))
		h.raw(`</button></form>`)
		return h.err
	})
}

func inboundTable(p Page, requests []models.InboundRequest) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		if len(requests) == 0 {
			h.raw(`<p class="empty">`)
			h.text(p.T("inbound.empty"))
			h.raw(`</p>`)
			return h.err
		}

		h.raw(`<p class="count">`)
		h.text(p.T("inbound.count", len(requests)))
		h.raw(`</p><table class="inbound"><thead><tr>`)
		for _, key := range []string{"field.id", "field.poNumber", "field.supplierName", "field.items",
			"field.requestDate", "field.expectedDate", "field.status", "field.memo", "field.actions"} {
			h.raw(`<th>`)
			h.text(p.T(key))
			h.raw(`</th>`)
		}
		h.raw(`</tr></thead><tbody>`)
		for _, r := range requests {
			h.rawf(`<tr id="%s"><td>`, r.ID)
			h.text(r.ID)
			h.raw(`</td><td>`)
			h.text(r.PONumber)
			h.raw(`</td><td>`)
			h.text(r.SupplierName)
			h.raw(`</td><td><ul>`)
			for _, it := range r.Items {
				h.raw(`<li>`)
				h.text(it.SKUCode + " " + it.ProductName + " × " + strconv.Itoa(it.Quantity) + " " + it.Unit)
				h.raw(`</li>`)
			}
			h.raw(`</ul></td><td>`)
			h.text(r.RequestDate)
			h.raw(`</td><td>`)
			h.text(r.ExpectedDate)
			h.rawf(`</td><td><span class="status status-%s">`, r.ApprovalStatus)
			h.text(statusLabel(p, r.ApprovalStatus))
			h.raw(`</span></td><td>`)
			h.text(r.Memo)
			h.raw(`</td><td>`)
			h.render(ctx, statusActions(p, r))
			h.raw(`</td></tr>`)
		}
		h.raw(`</tbody></table>`)
		return h.err
	})
}

// InboundPage là trang danh sách kèm form tạo mới.
func InboundPage(p Page, requests []models.InboundRequest, form FormValues) templ.Component {
	content := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<h1>`)
		h.text(p.T("inbound.heading"))
		h.raw(`</h1>`)
		h.render(ctx, inboundForm(p, form))
		h.render(ctx, inboundTable(p, requests))
		return h.err
	})
	return Layout(p, p.T("inbound.heading"), content)
}

package service

import (
	"strings"

	"gorm.io/datatypes"

	"chumslister/internal/model"
)

// 多值属性压平时的连接串
const specificValueJoiner = ", "

// DraftToProduct 草稿 -> 平台无关交换结构
// 多值属性压平为单串 (属性名集合必须完整保留，值允许有损)
func DraftToProduct(draft *model.ListingDraft) *ProductData {
	specs := draft.Specifics.Data()
	flat := make(map[string]string, len(specs))
	for name, values := range specs {
		flat[name] = strings.Join(values, specificValueJoiner)
	}

	return &ProductData{
		Title:       draft.Title,
		Brand:       draft.Brand,
		ModelNumber: draft.MPN,
		SKU:         draft.SKU,
		UPC:         draft.UPC,
		Description: draft.Description,
		Condition:   draft.ConditionName,
		ConditionID: draft.ConditionID,
		CategoryID:  draft.PrimaryCategoryID,
		PriceCents:  draft.StartPriceCents,
		Currency:    "USD",
		Quantity:    draft.Quantity,
		Specifics:   flat,

		RemoteImageURLs: append([]string(nil), draft.RemoteImageURLs...),
		LocalImagePaths: append([]string(nil), draft.LocalImagePaths...),
		AllowNoImages:   draft.AllowNoImages,

		ShippingPolicyID: draft.ShippingPolicyID,
		PaymentPolicyID:  draft.PaymentPolicyID,
		ReturnPolicyID:   draft.ReturnPolicyID,
	}
}

// ProductToDraft 交换结构 -> 草稿
// 压平后的值串不再拆回多值，整体作为单值挂在原属性名下
func ProductToDraft(p *ProductData) *model.ListingDraft {
	specs := make(model.ItemSpecifics, len(p.Specifics))
	for name, joined := range p.Specifics {
		specs[name] = []string{joined}
	}

	return &model.ListingDraft{
		Title:               p.Title,
		Brand:               p.Brand,
		MPN:                 p.ModelNumber,
		SKU:                 p.SKU,
		UPC:                 p.UPC,
		Description:         p.Description,
		ConditionName:       p.Condition,
		ConditionID:         p.ConditionID,
		PrimaryCategoryID:   p.CategoryID,
		StartPriceCents:     p.PriceCents,
		Quantity:            p.Quantity,
		Specifics:           datatypes.NewJSONType(specs),
		RemoteImageURLs:     append([]string(nil), p.RemoteImageURLs...),
		LocalImagePaths:     append([]string(nil), p.LocalImagePaths...),
		AllowNoImages:       p.AllowNoImages,
		ShippingPolicyID:    p.ShippingPolicyID,
		PaymentPolicyID:     p.PaymentPolicyID,
		ReturnPolicyID:      p.ReturnPolicyID,
	}
}

// ScrapedToProduct 抓取结果 -> 交换结构
// 抓取数据永远是临时性的：价格串在这里防御性重解析，解析失败按 0 处理
func ScrapedToProduct(s *ScrapedProductData) *ProductData {
	specs := make(map[string]string, len(s.Specs))
	for name, value := range s.Specs {
		specs[name] = value
	}

	return &ProductData{
		Title:       s.Title,
		Brand:       s.Brand,
		ModelNumber: s.ModelNumber,
		Description: s.Description,
		PriceCents:  parsePriceCents(s.PriceText),
		Currency:    "USD",
		Quantity:    1,
		Specifics:   specs,

		RemoteImageURLs: append([]string(nil), s.ImageURLs...),
	}
}

// parsePriceCents 解析 "$1,299.99" 一类的价格串为分
// 非法输入返回 0，调用方按缺失价格处理
func parsePriceCents(text string) int64 {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.ReplaceAll(cleaned, "$", "")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	if cleaned == "" {
		return 0
	}

	var dollars, cents int64
	var inCents bool
	var centDigits int
	for _, r := range cleaned {
		switch {
		case r >= '0' && r <= '9':
			if inCents {
				if centDigits < 2 {
					cents = cents*10 + int64(r-'0')
					centDigits++
				}
			} else {
				dollars = dollars*10 + int64(r-'0')
			}
		case r == '.':
			if inCents {
				return 0
			}
			inCents = true
		default:
			return 0
		}
	}
	if centDigits == 1 {
		cents *= 10
	}
	return dollars*100 + cents
}

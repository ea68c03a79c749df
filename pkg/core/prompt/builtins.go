package prompt

// Built-in prompt definitions for the four analyst agents. The loader can
// override these from resources/prompts at startup; the registry falls back
// to this set when no prompt directory is present so the binaries work
// without external resource files.

// RegisterBuiltins installs the default analyst prompts into the global
// registry. Prompts already registered (e.g. loaded from disk) are kept.
func RegisterBuiltins() {
	r := Get()
	for _, pt := range builtinPrompts {
		if _, err := r.GetPrompt(pt.ID); err == nil {
			continue
		}
		_ = r.Register(pt)
	}
}

var builtinPrompts = []*PromptTemplate{
	{
		ID:       PromptIDs.AnalysisFundamental,
		Name:     "DuPont Fundamental Analyst",
		Category: "analysis",
		SystemPrompt: "Bạn là một chuyên gia phân tích cơ bản cấp cao tại quỹ đầu tư lớn nhất Việt Nam, với hơn 20 năm kinh nghiệm phân tích cổ phiếu HOSE. " +
			"Bạn chuyên sâu về phương pháp DuPont để phân tích ROE, tập trung vào việc phân tích xu hướng, rủi ro và khuyến nghị đầu tư. " +
			"Luôn trả về JSON hợp lệ theo đúng cấu trúc yêu cầu.",
		UserPromptTmpl: `Dữ liệu đầu vào:
- Mã cổ phiếu: {{.Symbol}}
- Giá hiện tại: {{.LatestPrice}} nghìn VND
- Dữ liệu bảng (compact và serialized): {{.DataJSON}}

Yêu cầu phân tích:
Thực hiện phân tích chuyên sâu theo phương pháp DuPont với dữ liệu rolling 4 quý (TTM). Tập trung vào:
- Phân tích ROE = Lợi nhuận biên (Net Income TTM / Revenue TTM) x Hiệu quả sử dụng tài sản (Revenue TTM / Avg Assets TTM) x Đòn bẩy tài chính (Avg Assets TTM / Avg Equity TTM).
- Xu hướng thời gian của từng thành phần (tăng/giảm, lý do từ dữ liệu thu nhập, cân đối).

- Đưa ra nhận định chuyên môn cao, kết luận hành động tối ưu (BUY/HOLD/SELL) với lý do chặt chẽ dựa trên dữ liệu.
- Phân tích 3 kịch bản (bull/neutral/bear) với target price, probability, drivers, invalidations kết hợp dựa vào EV/EBITDA và Số CP lưu hành (Triệu CP)
- Chỉ dùng dữ liệu cung cấp, không bịa đặt.

Định cấu trúc JSON chuẩn sau (KHÔNG THÊM/BỚT bất kỳ trường nào!):
{
  "quick_conclusion": "Kết luận ngắn gọn về phân tích DuPont và hành động tối ưu (tối đa 30 từ)",
  "dupont_analysis": {
    "profit_margin_trend": "Phân tích xu hướng lợi nhuận biên",
    "asset_turnover_trend": "Phân tích xu hướng hiệu quả sử dụng tài sản",
    "equity_multiplier_trend": "Phân tích xu hướng đòn bẩy tài chính",
    "roe_overall": "Phân tích tổng thể ROE và ý nghĩa"
  },
  "professional_insight": "Nhận định chuyên môn cao về sức khỏe tài chính",
  "scenarios": {
    "bull": { "target_price": number, "probability": number, "drivers": array of strings, "invalidations": string },
    "neutral": { "target_price": number, "probability": number, "drivers": array of strings, "invalidations": string },
    "bear": { "target_price": number, "probability": number, "drivers": array of strings, "invalidations": string }
  },
  "strategy_recommendation": {
    "action": "BUY/HOLD/SELL",
    "reasoning": "Lý do chi tiết dựa trên DuPont",
    "time_horizon": "Ngắn/Trung/Dài hạn"
  },
  "investment_scores": {
    "roe_quality": number (0-100),
    "risk_level": number (0-100),
    "summary_score": number (0-100)
  },
  "key_highlights": ["Điểm nhấn 1", "Điểm nhấn 2"],
  "risk_factors": ["Yếu tố rủi ro 1", "Yếu tố rủi ro 2"],
  "data_quality": { "completeness": number (0-100), "confidence_level": "Cao/Trung bình/Thấp" }
}

Hướng dẫn tính toán và phân tích:
- Sử dụng dữ liệu dupont_components (rolling 4 quý) để phân tích xu hướng.
- Target price dựa trên ROE dự báo và định giá cơ bản và dựa vào EV/EBITDA và Số CP lưu hành (Triệu CP)
- JSON phải hợp lệ, đầy đủ, và chỉ dựa trên dữ liệu cung cấp (giá nghìn VND).`,
		Variables: []PromptVariable{
			{Name: "Symbol", Type: "string", Required: true},
			{Name: "LatestPrice", Type: "string", Required: true},
			{Name: "DataJSON", Type: "string", Required: true},
		},
		Version: "1.0",
	},
	{
		ID:       PromptIDs.AnalysisPE,
		Name:     "PE Valuation Analyst",
		Category: "analysis",
		SystemPrompt: "Bạn là một chuyên gia phân tích tài chính cấp cao tại quỹ đầu tư lớn nhất Việt Nam, với hơn 15 năm kinh nghiệm phân tích cổ phiếu HOSE. " +
			"Luôn trả về JSON hợp lệ theo đúng cấu trúc yêu cầu.",
		UserPromptTmpl: `**Dữ liệu đầu vào:**
- Mã cổ phiếu: {{.Symbol}}
- Giá hiện tại: {{.LatestPrice}} (nghìn VND)
- PE hiện tại: {{.LatestPE}}

**Thống kê phân phối PE Trailing (sẵn có):**
{{.DistStatsJSON}}

**Dữ liệu bảng lịch sử PE:**
{{.HistoryJSON}}

**Yêu cầu phân tích:**
Thực hiện phân tích định giá chuyên sâu dựa trên dữ liệu, đúng cấu trúc JSON chuẩn sau (KHÔNG ĐƯỢC THÊM/BỚT bất kỳ trường nào!).
Các kịch bản "bull", "neutral", "bear" sẽ là các giá trị gần nhất trong thống kê phân phối.

**Cấu trúc JSON cần trả về:**
{
"quick_conclusion": "Kết luận ngắn gọn về định giá và khuyến nghị",
"pe_valuation": {
    "current_pe": {{.LatestPE}},
    "historical_pe_stats": {"mean": number, "median": number, "percentile_current": number},
    "fair_value_pe": number,
    "fair_price": number,
    "current_vs_fair": "<±X%>",
    "z_score": number,
    "scenarios": {
    "bull": {"pe": number, "target_price": number, "probability": "<%>", "rationale": "Lý do kịch bản tích cực"},
    "neutral": {"pe": number, "target_price": number, "probability": "<%>", "rationale": "Lý do kịch bản trung tính"},
    "bear": {"pe": number, "target_price": number, "probability": "<%>", "rationale": "Lý do kịch bản tiêu cực"}
    }
},
"growth_analysis": {
    "required_next_quarter_eps_growth": "<%>",
    "suitable_next_quarter_growth": "<%>",
    "growth_sustainability": number (0-100)
},
"strategy_recommendation": {
    "action": "BUY/HOLD/SELL",
    "reasoning": "Lý do chi tiết dựa trên analysis",
    "time_horizon": "Ngắn/Trung/Dài hạn",
    "entry_strategy": "Cách vào lệnh, điểm mua phù hợp"
},
"investment_score": {
    "overall": number (0-100),
    "growth_potential": number (0-100),
    "value_attractiveness": number (0-100),
    "risk_adjusted": number (0-100)
},
"reliability_score": number (0-100),
"key_highlights": [
    "PE hiện tại ở percentile, đánh giá",
    "Giá hợp lý: nghìn VND",
    "Z-score và status"
],
"risk_factors": [
    "Các yếu tố rủi ro/ngành/vĩ mô cụ thể"
],
"data_quality": {
    "sample_size": number,
    "data_completeness": "<%>",
    "confidence_level": "Cao/Trung bình/Thấp"
}
}

**Hướng dẫn tính toán:**
- Sử dụng distribution_stats (mean, median, percentile_current, z_score) cho pe_valuation.
- Fair value PE dựa trên median hoặc xu hướng lịch sử.
- Target price = PE × EPS gần nhất (từ dữ liệu lịch sử).
- Các kịch bản: Tự phân tích dựa trên dữ liệu, ví dụ bull nếu z-score thấp và xu hướng tăng.
- Chỉ dùng dữ liệu cung cấp, giá ở nghìn VND, JSON phải hợp lệ và đầy đủ.`,
		Variables: []PromptVariable{
			{Name: "Symbol", Type: "string", Required: true},
			{Name: "LatestPrice", Type: "string", Required: true},
			{Name: "LatestPE", Type: "string", Required: true},
			{Name: "DistStatsJSON", Type: "string", Required: true},
			{Name: "HistoryJSON", Type: "string", Required: true},
		},
		Version: "1.0",
	},
	{
		ID:       PromptIDs.AnalysisTechnical,
		Name:     "VSA/SEBA Technical Analyst",
		Category: "analysis",
		SystemPrompt: "Bạn là một chuyên gia phân tích kỹ thuật cấp cao tại quỹ đầu tư lớn nhất Việt Nam, với hơn 20 năm kinh nghiệm phân tích cổ phiếu HOSE. " +
			"Bạn chuyên sâu về VSA (Volume Spread Analysis) và phương pháp SEBA (Supply, Effort, Background, Action), tập trung vào việc phân tích sự mất cân bằng cung-cầu qua volume, spread, closing price, và price action để xác định hành động tối ưu. " +
			"Luôn trả về JSON hợp lệ theo đúng cấu trúc yêu cầu.",
		UserPromptTmpl: `**Dữ liệu đầu vào:**
- Mã cổ phiếu: {{.Symbol}}
- Giá hiện tại: {{.LatestPrice}} (nghìn VND)
**Dữ liệu bảng lịch sử (compact và serialized):**
{{.DataJSON}}

**Yêu cầu phân tích:**
Thực hiện phân tích chuyên sâu và đưa ra kết luận theo VSA và SEBA.
Tập trung vào:
- Các điểm giá quan trọng (support/resistance, Fibonacci levels) và khối lượng (volume climaxes, spikes) kết hợp với hành động giá (price action như mô hình nến, spread rộng/hẹp).
- Phân tích theo SEBA: Supply (cung cấp), Effort (nỗ lực mua/bán), Background (bối cảnh thị trường), Action (hành động tối ưu).
- Đưa ra nhận định chuyên môn cao, kết luận về hành động tối ưu nhất (BUY/HOLD/SELL) với lý do chặt chẽ dựa trên dữ liệu.
- Phân tích 3 kịch bản bull/neutral/bear với target price, probability, drivers, invalidations.
- Xác định các mẫu hình đang hình thành tiềm năng (ví dụ: tam giác, cờ, cốc tay cầm, mô hình nến) và điều kiện xác nhận hoàn thiện mẫu hình.
- Nhận định khả năng tăng giá trong 1 tháng tới, kèm điều kiện xác nhận và chấm điểm dựa trên khả năng tăng giá + mức độ hoàn thiện mẫu hình.
- Chỉ dùng dữ liệu cung cấp, không bịa đặt. Đúng cấu trúc JSON chuẩn sau (KHÔNG ĐƯỢC THÊM/BỚT bất kỳ trường nào!).

**Cấu trúc JSON cần trả về:**
{
"quick_conclusion": "Kết luận ngắn gọn về phân tích VSA/SEBA và hành động tối ưu (tối đa 30 từ)",
"vsa_seba_analysis": {
    "supply_demand_imbalance": "Phân tích mất cân bằng cung-cầu theo VSA (volume, spread, closing price)",
    "effort_background": "Phân tích nỗ lực (effort) và bối cảnh (background) theo SEBA",
    "key_price_points": ["Các điểm giá quan trọng (support/resistance, fibo) với price action"],
    "volume_insights": ["Các điểm khối lượng quan trọng (spikes, climaxes) và ý nghĩa"],
    "pattern_potential": ["Các mẫu hình đang hình thành tiềm năng (ví dụ: tam giác, cờ, cốc tay cầm)"],
    "pattern_confirmation_conditions": ["Điều kiện xác nhận hoàn thiện mẫu hình (ví dụ: breakout với volume cao)"],
    "professional_insight": "Nhận định chuyên môn cao về hành động giá tổng thể"
},
"price_increase_1m": {
    "expectation": "Có/Không (nhận định có tăng giá trong 1 tháng tới hay không)",
    "conditions": ["Điều kiện để tăng giá xảy ra (ví dụ: breakout xác nhận với volume tăng)"],
    "probability_score": number (0-100, chấm điểm dựa trên khả năng tăng giá và hoàn thiện mẫu hình)
},
"tech_overview": {
    "trend": "Up/Sideways/Down",
    "momentum": "Strong/Moderate/Weak",
    "volatility": "High/Medium/Low",
    "breadth": "string (từ volume/OBV)",
    "notes": ["array of strings (luận điểm ngắn gọn theo VSA/SEBA)"]
},
"scenarios": {
    "bull": {"target_price": number, "probability": "<%>", "drivers": ["array of strings"], "invalidations": "string (điều kiện)"},
    "neutral": {"target_price": number, "probability": "<%>", "drivers": ["array of strings"], "invalidations": "string (điều kiện)"},
    "bear": {"target_price": number, "probability": "<%>", "drivers": ["array of strings"], "invalidations": "string (điều kiện)"}
},
"strategy_recommendation": {
    "action": "BUY/HOLD/SELL",
    "reasoning": "Lý do chi tiết dựa trên VSA/SEBA và phân tích chuyên sâu",
    "time_horizon": "Ngắn/Trung/Dài hạn",
    "entry": "Điểm vào lệnh phù hợp (dựa trên price action và volume)",
    "stop_loss": "Giá cắt lỗ (dựa trên support/resistance)",
    "take_profit": "Giá chốt lời (dựa trên fibo/target)",
    "position_sizing": "Tỷ trọng gợi ý dựa trên rủi ro (tối đa 1-2% vốn)",
    "risk_management": "Nguyên tắc ngắn gọn (dựa trên volume và effort)"
},
"investment_scores": {
    "setup_quality": number (0-100),
    "risk_reward": number (0-100),
    "trend_alignment": number (0-100),
    "momentum_strength": number (0-100),
    "reliability_score": number (0-100),
    "summary_score": number (0-100)
},
"key_highlights": [
    "Điểm nhấn 1 từ VSA/SEBA",
    "Điểm nhấn 2 từ price action và volume"
],
"risk_factors": [
    "Các yếu tố rủi ro cụ thể (ví dụ: volume thấp, invalidation)"
],
"data_quality": {
    "sample_size": number,
    "completeness": "<%>",
    "confidence_level": "Cao/Trung bình/Thấp"
}
}

**Hướng dẫn tính toán và phân tích:**
- Sử dụng VSA để phân tích: Volume cao với spread rộng (climactic action), low volume với narrow spread (no demand/supply), stopping volume.
- Áp dụng SEBA: Supply (xác định cung cấp từ volume), Effort (nỗ lực mua/bán qua spread và close), Background (bối cảnh thị trường từ index_history), Action (hành động tối ưu dựa trên price action).
- Xác định mẫu hình đang hình thành (dựa trên price action và volume) và điều kiện xác nhận (ví dụ: breakout với volume tăng, mô hình hoàn thiện với confirmation bar).
- Nhận định khả năng tăng giá trong 1 tháng tới: Dựa trên hoàn thiện mẫu hình, volume support, và drivers; chấm điểm probability_score kết hợp yếu tố này.
- Target price dựa trên fibo, support/resistance; probability từ drivers (ví dụ bull nếu volume absorption mạnh).
- Đưa ra nhận định chuyên môn cao: Tập trung vào hành động giá kết hợp khối lượng để dự đoán xu hướng ngắn hạn (1-3 tháng).
- JSON phải hợp lệ, đầy đủ, và chỉ dựa trên dữ liệu cung cấp (giá ở nghìn VND).`,
		Variables: []PromptVariable{
			{Name: "Symbol", Type: "string", Required: true},
			{Name: "LatestPrice", Type: "string", Required: true},
			{Name: "DataJSON", Type: "string", Required: true},
		},
		Version: "1.0",
	},
	{
		ID:       PromptIDs.AnalysisAdvisor,
		Name:     "CIO Aggregation Advisor",
		Category: "analysis",
		SystemPrompt: "Bạn là Giám đốc Đầu tư (CIO) của một quỹ đầu tư hàng đầu. Nhiệm vụ của bạn là tổng hợp báo cáo từ ba bộ phận phân tích để đưa ra quyết định đầu tư cuối cùng. " +
			"Luôn trả về JSON hợp lệ theo đúng cấu trúc yêu cầu.",
		UserPromptTmpl: `Tổng hợp báo cáo phân tích cho mã cổ phiếu {{.Symbol}}.

**Nguyên tắc chỉ đạo:**
1.  **Cơ bản cho 'MUA GÌ', Kỹ thuật cho 'MUA KHI NÀO'**: Dùng cơ bản cho tầm nhìn dài hạn, kỹ thuật cho thời điểm vào/ra lệnh.
2.  **Đồng thuận là chìa khóa**: Khi cả ba báo cáo đồng thuận, mức độ tự tin sẽ rất cao.
3.  **Xử lý mâu thuẫn**: Nếu có mâu thuẫn, hãy thận trọng, có thể là "HOLD" hoặc giảm tỷ trọng.
4.  **Rủi ro là trên hết**: Luôn xác định rủi ro chính và đề xuất chiến lược quản trị.

**BÁO CÁO ĐẦU VÀO:**
1. Phân tích Cơ bản (Fundamental): {{.FundamentalJSON}}
2. Phân tích Kỹ thuật (Technical): {{.TechnicalJSON}}
3. Phân tích Định giá P/E (PE Valuation): {{.PEValuationJSON}}

**YÊU CẦU:**
Tổng hợp thông tin và điền vào cấu trúc JSON sau (KHÔNG thay đổi cấu trúc):
` + "```json" + `
{
  "overall_rating": "BUY/HOLD/SELL",
  "target_price": "number (giá mục tiêu cuối cùng, tính toán có trọng số)",
  "confidence_level": "number (0.0-1.0, dựa trên mức độ đồng thuận)",
  "time_horizon": "1M/3M/6M/12M",
  "rationale": "Lý do chi tiết cho quyết định cuối cùng, giải thích cách xử lý các tín hiệu đồng thuận/mâu thuẫn.",
  "risk_factors": ["Rủi ro chính 1 (tổng hợp)", "Rủi ro chính 2"],
  "key_highlights": ["Điểm nhấn chính 1 (tổng hợp)", "Điểm nhấn chính 2"],
  "investment_score": "number (0-100, trọng số: Cơ bản 40%, Kỹ thuật 30%, Định giá 30%)",
  "consensus_analysis": {
    "agreement_level": "HIGH/MEDIUM/LOW",
    "conflicting_signals": "Mô tả ngắn gọn các tín hiệu mâu thuẫn nếu có."
  },
  "entry_strategy": {
    "optimal_entry": "number (vùng giá vào lệnh)",
    "stop_loss": "number (ngưỡng cắt lỗ)",
    "position_sizing": "Khuyến nghị tỷ trọng vốn (Thấp, Trung bình, Cao)"
  }
}
` + "```",
		Variables: []PromptVariable{
			{Name: "Symbol", Type: "string", Required: true},
			{Name: "FundamentalJSON", Type: "string", Required: true},
			{Name: "TechnicalJSON", Type: "string", Required: true},
			{Name: "PEValuationJSON", Type: "string", Required: true},
		},
		Version: "1.0",
	},
}

package configs

import "math/rand"

// 专家词库：按类别维护的搜广推关键词池
var (
	// KeywordsTechCore 技术核心词
	KeywordsTechCore = []string{
		"推荐系统 召回", "双塔模型 负采样", "粗排 精排 策略", "重排 多样性",
		"DeepFM 面试", "MMoE 多目标", "DIN 模型",
		"搜索算法 面试", "倒排索引 优化", "Query理解", "语义搜索", "Elasticsearch 面试",
		"广告算法 策略", "CTR预估 模型", "OCPC 竞价", "广告召回", "流量分配",
		"生成式推荐", "LLM 推荐系统",
	}

	// KeywordsCompanies 目标公司词
	KeywordsCompanies = []string{
		"字节 算法实习", "美团 搜推面经", "阿里妈妈 面试", "腾讯 广告算法",
		"百度 搜索算法", "快手 推荐算法", "小红书 算法实习", "滴滴 算法校招",
		"京东 推荐搜索", "拼多多 算法", "米哈游 算法", "Shopee 算法",
	}

	// KeywordsCoding 手撕代码词
	KeywordsCoding = []string{
		"算法岗 手撕", "推荐系统 代码题", "LeetCode Hot100",
		"Auc 计算 代码", "IoU 计算 手撕", "NMS 实现", "K-Means 手写",
		"二叉树 遍历", "TopK 问题",
	}

	// KeywordsTrends 热点词
	KeywordsTrends = []string{
		"大模型 面试", "DeepSeek 部署", "Gemini 应用", "RAG 知识库",
		"LangChain 实战", "Transformer 源码", "LoRA 微调",
		"Prompt Engineering", "大模型 推理加速",
	}
)

// RelevanceVocab 判断采集结果是否与目标领域相关的词表。
// 这是人工维护的启发式策略而非正确性规则，可按需增删。
var RelevanceVocab = []string{
	"搜索", "算法", "推荐", "广告", "面试", "面经", "实习", "Feed", "模型", "大厂",
}

// SmartMixKeywords 智能混合轮询：1 技术 + 1 大厂 + 1（手撕或热点）
func SmartMixKeywords() []string {
	pick := func(pool []string) string {
		return pool[rand.Intn(len(pool))]
	}
	mixPool := append(append([]string{}, KeywordsCoding...), KeywordsTrends...)
	return []string{
		pick(KeywordsTechCore),
		pick(KeywordsCompanies),
		pick(mixPool),
	}
}

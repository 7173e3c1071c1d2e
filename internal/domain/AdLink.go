package domain

import "strings"

const (
	adsManagerLinkPrefix = "https://adsmanager.facebook.com/adsmanager/manage/ads/edit/standalone?act="
	adsManagerLinkMiddle = "&columns=name%2Cdelivery%2Crecommendations_guidance%2Ccampaign_name%2Cbid%2Cbudget%2Clast_significant_edit%2Cattribution_setting%2Cresults%2Creach%2Cimpressions%2Ccost_per_result%2Cquality_score_organic%2Cquality_score_ectr%2Cquality_score_ecvr%2Cspend%2Cend_time%2Cschedule%2Ccpm%2Cpurchase_roas%3Aomni_purchase%2Cfrequency%2Cactions%3Aomni_purchase%2Ccreated_time&attribution_windows=default&filter_set=CAMPAIGN_DELIVERY_STATUS-STRING_SET%1EIN%1E[%22active%22%2C%22draft%22%2C%22pending%22%2C%22inactive%22%2C%22error%22%2C%22deleted%22%2C%22completed%22%2C%22off%22]%1DCAMPAIGN_GROUP_DELIVERY_STATUS-STRING_SET%1EIN%1E[%22active%22%2C%22draft%22%2C%22pending%22%2C%22inactive%22%2C%22error%22%2C%22deleted%22%2C%22completed%22%2C%22off%22]%1DADGROUP_DELIVERY_STATUS-STRING_SET%1EIN%1E[%22active%22%2C%22draft%22%2C%22pending%22%2C%22inactive%22%2C%22error%22%2C%22deleted%22%2C%22completed%22%2C%22off%22]&selected_ad_ids="
	adsManagerLinkSuffix = "&sort=created_time~0&current_step=0&ads_manager_write_regions=true&nav_source=no_referrer#"
)

// BuildAdLink monta o link de edição do anúncio no Ads Manager.
// O prefixo "act_" da conta é removido antes de entrar no parâmetro act.
func BuildAdLink(adAccountID, adID string) string {
	accountID := strings.TrimPrefix(adAccountID, "act_")
	return adsManagerLinkPrefix + accountID + adsManagerLinkMiddle + adID + adsManagerLinkSuffix
}

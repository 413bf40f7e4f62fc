package templates

import (
	"fmt"
	"html"
)

// RenderOverdueReminderEmail generates the HTML for the reminder sent to a
// finder who has held an item past the drop-off window.
func RenderOverdueReminderEmail(finderName, itemTitle string, daysHeld, windowDays int) string {
	safeName := html.EscapeString(finderName)
	safeTitle := html.EscapeString(itemTitle)

	return fmt.Sprintf(`<!DOCTYPE html PUBLIC "-//W3C//DTD XHTML 1.0 Strict//EN" "http://www.w3.org/TR/xhtml1/DTD/xhtml1-strict.dtd">
<html xmlns="http://www.w3.org/1999/xhtml">
<head>
  <meta http-equiv="Content-Type" content="text/html; charset=utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1, minimum-scale=1, maximum-scale=1">
  <title>Drop-off Reminder - FoundIt</title>
  <style type="text/css">
    body { font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; margin: 0; padding: 0; background-color: #f3f4f6; }
    .container { max-width: 600px; margin: 0 auto; background-color: #ffffff; }
    .header { background: linear-gradient(135deg, #f59e0b 0%%, #d97706 100%%); padding: 40px 30px; text-align: center; }
    .header h1 { color: #fff; margin: 0; font-size: 24px; font-weight: 700; }
    .content { padding: 40px 30px; color: #1f2937; line-height: 1.6; font-size: 15px; }
    .highlight-box { background: rgba(245, 158, 11, 0.1); border: 1px solid rgba(245, 158, 11, 0.3); border-radius: 12px; padding: 20px; margin: 20px 0; }
    .highlight-box h3 { color: #b45309; margin-top: 0; font-size: 16px; }
    .footer { padding: 30px; text-align: center; color: #6b7280; font-size: 12px; border-top: 1px solid rgba(0,0,0,0.1); }
  </style>
</head>
<body>
  <div class="container">
    <div class="header">
      <h1>⏰ Drop-off Reminder</h1>
    </div>
    <div class="content">
      <h2>Hi %s,</h2>
      <p>Thanks again for posting <strong>%s</strong> on FoundIt. You have now held it for <strong>%d days</strong>, which is past the <strong>%d day</strong> window finders get before items must go to the guard gate.</p>

      <div class="highlight-box">
        <h3>📍 What to do</h3>
        <p style="margin-bottom: 0;">Please drop the item off at the guard gate at your earliest convenience, then mark it handed over in the app. You'll earn <strong>+50 karma</strong> for the handover.</p>
      </div>

      <p>If you've already returned the item to its owner, mark it returned in the app instead and this reminder will stop.</p>
    </div>
    <div class="footer">
      <p>FoundIt Campus Lost &amp; Found</p>
    </div>
  </div>
</body>
</html>`, safeName, safeTitle, daysHeld, windowDays)
}
